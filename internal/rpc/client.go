package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/promenade/internal/simulate"
)

// #region types
// Reply is the decoded Simulate response.
type Reply struct {
	Lineup   string
	Rounds   int
	Executed int
	Cycle    *simulate.Cycle
}
// #endregion types

// #region client-struct
// Client wraps a connection to a Simulator service.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}
// #endregion client-struct

// #region constructor
// NewClient connects to a Simulator service at addr.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection.
// Used for testing without a real gRPC connection.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}
// #endregion constructor

// #region close
// Close shuts down the gRPC connection if the Client owns one.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
// #endregion close

// #region simulate
// Simulate asks the service for the lineup after rounds rounds of prog.
func (c *Client) Simulate(ctx context.Context, size int, prog string, rounds int) (Reply, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"size":    size,
		"program": prog,
		"rounds":  rounds,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("build request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, simulateMethod, req, resp); err != nil {
		return Reply{}, fmt.Errorf("simulate rpc: %w", err)
	}

	var reply Reply
	if reply.Lineup, err = stringField(resp, "lineup"); err != nil {
		return Reply{}, fmt.Errorf("decode reply: %w", err)
	}
	if reply.Rounds, err = intField(resp, "rounds", 0); err != nil {
		return Reply{}, fmt.Errorf("decode reply: %w", err)
	}
	if reply.Executed, err = intField(resp, "executed", 0); err != nil {
		return Reply{}, fmt.Errorf("decode reply: %w", err)
	}
	length, err := intField(resp, "cycle_length", 0)
	if err != nil {
		return Reply{}, fmt.Errorf("decode reply: %w", err)
	}
	if length > 0 {
		start, err := intField(resp, "cycle_start", 0)
		if err != nil {
			return Reply{}, fmt.Errorf("decode reply: %w", err)
		}
		reply.Cycle = &simulate.Cycle{Start: start, Length: length}
	}
	return reply, nil
}
// #endregion simulate
