package rpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/promenade/internal/logging"
	"github.com/danielpatrickdp/promenade/internal/metrics"
	"github.com/danielpatrickdp/promenade/internal/program"
	"github.com/danielpatrickdp/promenade/internal/simulate"
	"github.com/danielpatrickdp/promenade/internal/state"
)

// #region server
// Server answers Simulate requests. Metrics and store are optional.
type Server struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	store   *state.Store
}

// NewServer builds a Server. A nil logger discards output.
func NewServer(logger *slog.Logger, rec *metrics.Recorder, store *state.Store) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{logger: logger, metrics: rec, store: store}
}

// Simulate parses the request, runs the simulation and, when a store is
// configured, records the resulting lineup and run.
func (s *Server) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	size, err := intField(req, "size", 5)
	if err != nil {
		return nil, s.reject("request", err)
	}
	rounds, err := intField(req, "rounds", 1)
	if err != nil {
		return nil, s.reject("request", err)
	}
	text, err := stringField(req, "program")
	if err != nil {
		return nil, s.reject("request", err)
	}

	prog, err := program.ParseProgram(text)
	if err != nil {
		return nil, s.reject("parse", err)
	}
	initial, err := state.New(size)
	if err != nil {
		return nil, s.reject("request", err)
	}

	began := time.Now()
	res, err := simulate.Run(initial, prog, rounds)
	if err != nil {
		var pre *program.PreconditionError
		if errors.As(err, &pre) {
			return nil, s.reject("precondition", err)
		}
		return nil, s.reject("request", err)
	}
	if s.metrics != nil {
		s.metrics.Observe(res, time.Since(began))
	}

	attrs := []any{"size", size, "ops", len(prog), "rounds", rounds, "executed", res.Executed, "lineup", res.Final.String()}
	if res.Cycle != nil {
		attrs = append(attrs, "cycle_start", res.Cycle.Start, "cycle_length", res.Cycle.Length)
	}
	s.logger.Info("simulate", attrs...)

	if s.store != nil {
		if err := s.persist(initial, prog, res); err != nil {
			s.logger.Error("persist run", "err", err)
			return nil, status.Error(codes.Internal, err.Error())
		}
	}
	return replyFor(res)
}

func (s *Server) reject(reason string, err error) error {
	if s.metrics != nil {
		s.metrics.Fail(reason)
	}
	s.logger.Warn("simulate rejected", "reason", reason, "err", err)
	return status.Error(codes.InvalidArgument, err.Error())
}

func (s *Server) persist(initial state.Lineup, prog program.Program, res simulate.Result) error {
	rec := state.StateRecord{
		VersionID:   uuid.New().String(),
		Lineup:      res.Final,
		ProgramHash: prog.Hash(),
		Rounds:      res.Rounds,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CommitState(rec); err != nil {
		return err
	}
	entry := logging.RunEntry{
		VersionID:   rec.VersionID,
		ProgramHash: rec.ProgramHash,
		Size:        initial.Size(),
		Rounds:      res.Rounds,
		Executed:    res.Executed,
		TriggerType: "rpc",
		CreatedAt:   rec.CreatedAt,
	}
	if res.Cycle != nil {
		entry.CycleStart = res.Cycle.Start
		entry.CycleLength = res.Cycle.Length
	}
	return logging.LogRun(s.store.DB(), entry)
}

func replyFor(res simulate.Result) (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"lineup":   res.Final.String(),
		"rounds":   res.Rounds,
		"executed": res.Executed,
	}
	if res.Cycle != nil {
		fields["cycle_start"] = res.Cycle.Start
		fields["cycle_length"] = res.Cycle.Length
	}
	reply, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return reply, nil
}
// #endregion server
