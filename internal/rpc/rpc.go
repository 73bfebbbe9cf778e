// Package rpc serves the simulator over gRPC. Messages travel as
// google.protobuf.Struct values carrying the same JSON documents the HTTP
// API uses, so no generated code is needed.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/config"
	"github.com/xtding233/mlbsim/internal/game"
	"github.com/xtding233/mlbsim/internal/lineup"
	"github.com/xtding233/mlbsim/internal/report"
	"github.com/xtding233/mlbsim/internal/series"
	"github.com/xtding233/mlbsim/internal/service"
	"github.com/xtding233/mlbsim/internal/stats"
	"github.com/xtding233/mlbsim/internal/teams"
)

const (
	ServiceName = "mlbsim.v1.Simulator"

	simulateMethod   = "/" + ServiceName + "/Simulate"
	streamGameMethod = "/" + ServiceName + "/StreamGame"
)

// Message types on the StreamGame stream.
const (
	TypePlay       = "play"
	TypeHalfInning = "half_inning"
	TypeFinal      = "final"
)

// Request selects a matchup and overrides any of its settings.
type Request struct {
	Matchup string `json:"matchup"`
	config.Overrides
}

type Response struct {
	Lineups [2]service.Lineup `json:"lineups"`
	Summary series.Summary    `json:"summary"`
}

// Message is one item of a StreamGame stream.
type Message struct {
	Type       string                 `json:"type"`
	Play       *game.PlayRecord       `json:"play,omitempty"`
	HalfInning *game.HalfInningRecord `json:"half_inning,omitempty"`
	Final      *Response              `json:"final,omitempty"`
}

// SimulatorServer is the server API for the mlbsim.v1.Simulator service.
type SimulatorServer interface {
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StreamGame(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
}

// ServiceDesc is the grpc.ServiceDesc for the mlbsim.v1.Simulator service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Simulate", Handler: simulateHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "StreamGame", Handler: streamGameHandler, ServerStreams: true},
	},
	Metadata: "mlbsim/v1/simulator.proto",
}

func Register(s grpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func simulateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Simulate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: simulateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SimulatorServer).Simulate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func streamGameHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SimulatorServer).StreamGame(in, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

// Simulator is the part of service.Service the server uses.
type Simulator interface {
	Simulate(ctx context.Context, req service.Request) (service.Response, error)
}

// Server implements SimulatorServer on top of a Simulator.
type Server struct {
	svc Simulator
	log *log.Logger
}

func NewServer(svc Simulator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{svc: svc, log: logger}
}

func (s *Server) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req Request
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	resp, err := s.svc.Simulate(ctx, service.Request{Matchup: req.Matchup, Overrides: req.Overrides})
	if err != nil {
		return nil, s.statusError(err)
	}
	return toStruct(Response{Lineups: resp.Lineups, Summary: resp.Summary})
}

// StreamGame plays a single game and streams every record as it is
// committed, then a final message with the summary.
func (s *Server) StreamGame(in *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	var req Request
	if err := fromStruct(in, &req); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	one, none := 1, 0
	req.Repetitions, req.Workers, req.Series = &one, &one, &none

	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	ch := report.NewChannel(16)
	type result struct {
		resp service.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := s.svc.Simulate(ctx, service.Request{
			Matchup:   req.Matchup,
			Overrides: req.Overrides,
			Reporter:  func(int, int) game.Reporter { return ch },
		})
		ch.Close()
		done <- result{resp, err}
	}()

	for ev := range ch.C {
		msg := Message{Type: TypePlay, Play: ev.Play}
		if ev.Half != nil {
			msg = Message{Type: TypeHalfInning, HalfInning: ev.Half}
		}
		if err := s.send(stream, msg); err != nil {
			cancel()
			for range ch.C {
			}
			<-done
			return err
		}
	}

	r := <-done
	if r.err != nil {
		return s.statusError(r.err)
	}
	return s.send(stream, Message{Type: TypeFinal, Final: &Response{Lineups: r.resp.Lineups, Summary: r.resp.Summary}})
}

func (s *Server) send(stream grpc.ServerStreamingServer[structpb.Struct], msg Message) error {
	st, err := toStruct(msg)
	if err != nil {
		return err
	}
	return stream.Send(st)
}

func (s *Server) statusError(err error) error {
	code := codeFor(err)
	if code == codes.Internal {
		s.log.Error("simulate failed", "err", err)
	}
	return status.Error(code, err.Error())
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, lineup.ErrConfiguration),
		errors.Is(err, teams.ErrUnknownTeam),
		errors.Is(err, series.ErrParams):
		return codes.InvalidArgument
	case errors.Is(err, chance.ErrAllocation),
		errors.Is(err, stats.ErrData):
		return codes.FailedPrecondition
	case errors.Is(err, service.ErrNoStats):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Internal
}

// toStruct converts v to a Struct through its JSON form.
func toStruct(v interface{}) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	st := new(structpb.Struct)
	if err := protojson.Unmarshal(b, st); err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	return st, nil
}

func fromStruct(st *structpb.Struct, v interface{}) error {
	b, err := protojson.Marshal(st)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
