package rpc_test

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/xtding233/mlbsim/internal/config"
	"github.com/xtding233/mlbsim/internal/rpc"
	"github.com/xtding233/mlbsim/internal/service"
	"github.com/xtding233/mlbsim/internal/testutil"
)

func dial(t *testing.T) *rpc.Client {
	t.Helper()
	statsDir, err := testutil.WriteStatsDir(t.TempDir(), "Yankees", "Red Sox")
	if err != nil {
		t.Fatal(err)
	}
	cfgDir, err := testutil.WriteConfigDir(t.TempDir(), "Yankees", "Red Sox", statsDir)
	if err != nil {
		t.Fatal(err)
	}
	svc := service.New(config.NewLoader(cfgDir))

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	rpc.Register(s, rpc.NewServer(svc, nil))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return rpc.NewClient(conn)
}

func TestSimulate(t *testing.T) {
	c := dial(t)
	reps := 4
	resp, err := c.Simulate(context.Background(), rpc.Request{
		Matchup:   "fixed",
		Overrides: config.Overrides{Repetitions: &reps},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Summary.Games != 4 {
		t.Fatalf("games; got=%d", resp.Summary.Games)
	}
	if resp.Lineups[0].Pitcher != testutil.PlayerName("Yankees", "SP", 2) {
		t.Errorf("away pitcher; got=%s", resp.Lineups[0].Pitcher)
	}
	if resp.Lineups[0].Order != testutil.Lineup("Yankees") {
		t.Errorf("away lineup not the configured one: %v", resp.Lineups[0].Order)
	}
}

func TestSimulateInvalid(t *testing.T) {
	c := dial(t)
	reps := 0
	_, err := c.Simulate(context.Background(), rpc.Request{Overrides: config.Overrides{Repetitions: &reps}})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code; got=%v err=%v", status.Code(err), err)
	}
}

func TestStreamGame(t *testing.T) {
	c := dial(t)
	stream, err := c.StreamGame(context.Background(), rpc.Request{})
	if err != nil {
		t.Fatal(err)
	}
	var plays, halves int
	var final *rpc.Response
	var lastScore [2]int
	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		switch msg.Type {
		case rpc.TypePlay:
			plays++
			if msg.Play.Seq != plays {
				t.Fatalf("play out of order; got seq=%d want=%d", msg.Play.Seq, plays)
			}
			lastScore = msg.Play.Score
		case rpc.TypeHalfInning:
			halves++
		case rpc.TypeFinal:
			final = msg.Final
		default:
			t.Fatalf("unexpected message type %q", msg.Type)
		}
	}
	if final == nil {
		t.Fatal("no final message")
	}
	if final.Summary.Games != 1 {
		t.Errorf("games; got=%d", final.Summary.Games)
	}
	if halves < 17 {
		t.Errorf("half-innings; got=%d", halves)
	}
	if plays < 51 {
		t.Errorf("plays; got=%d", plays)
	}
	if lastScore[0] == lastScore[1] {
		t.Errorf("game ended tied at %v", lastScore)
	}
}

func TestStreamGameInvalid(t *testing.T) {
	c := dial(t)
	bad := "Nope"
	stream, err := c.StreamGame(context.Background(), rpc.Request{Overrides: config.Overrides{Away: &bad}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = stream.Recv()
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code; got=%v err=%v", status.Code(err), err)
	}
}
