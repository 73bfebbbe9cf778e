package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote mlbsim.v1.Simulator.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Simulate(ctx context.Context, req Request, opts ...grpc.CallOption) (Response, error) {
	in, err := toStruct(req)
	if err != nil {
		return Response{}, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, simulateMethod, in, out, opts...); err != nil {
		return Response{}, err
	}
	var resp Response
	if err := fromStruct(out, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// GameStream yields the messages of one streamed game. Recv returns io.EOF
// after the final message.
type GameStream struct {
	stream grpc.ServerStreamingClient[structpb.Struct]
}

func (c *Client) StreamGame(ctx context.Context, req Request, opts ...grpc.CallOption) (*GameStream, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	cs, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], streamGameMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: cs}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return &GameStream{stream: x}, nil
}

func (g *GameStream) Recv() (Message, error) {
	st, err := g.stream.Recv()
	if err != nil {
		return Message{}, err
	}
	var msg Message
	if err := fromStruct(st, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
