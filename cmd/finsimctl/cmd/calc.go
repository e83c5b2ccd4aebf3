package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/finsimulator/internal/projection/application"
	"github.com/wyfcoding/finsimulator/internal/projection/domain"
	grpc_client "github.com/wyfcoding/finsimulator/internal/projection/interfaces/grpc"
	"github.com/wyfcoding/finsimulator/pkg/grpcclient"
)

var products = []string{"mortgage", "credit", "savings", "goal", "montecarlo", "compare"}

// calculator 本地服务与远程客户端的公共能力
type calculator interface {
	CalculateMortgage(context.Context, *application.MortgageRequest) (*application.MortgageResponse, error)
	CalculateCredit(context.Context, *application.CreditRequest) (*application.CreditResponse, error)
	CalculateSavings(context.Context, *application.SavingsRequest) (*application.SavingsResponse, error)
	CalculateGoal(context.Context, *application.GoalRequest) (*application.GoalResponse, error)
	Simulate(context.Context, *application.MonteCarloRequest) (*application.MonteCarloResponse, error)
	Compare(context.Context, *application.CompareRequest) (*application.CompareResponse, error)
}

type calcOptions struct {
	file    string
	remote  string
	retries int
	timeout time.Duration
	workers int
	seed    uint64
	pretty  bool
}

func newCalcCmd() *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:       "calc <product>",
		Short:     "Run a calculation from a JSON request",
		ValidArgs: products,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Example: `  echo '{"price":5000000,"down_payment":1000000,"years":20,"rate":10}' | finsimctl calc mortgage
  finsimctl calc montecarlo -f sim.json --seed 42 --pretty
  finsimctl calc compare -f scenarios.json --remote localhost:50051`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), opts.file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if opts.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.timeout)
				defer cancel()
			}

			calc, closeFn, err := opts.calculator()
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := runCalc(ctx, calc, args[0], input)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result, opts.pretty)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "-", "request JSON file, '-' reads stdin")
	f.StringVar(&opts.remote, "remote", "", "finsimulator gRPC address; empty runs in-process")
	f.IntVar(&opts.retries, "retries", 2, "retries on Unavailable for remote calls")
	f.DurationVar(&opts.timeout, "timeout", 30*time.Second, "calculation timeout")
	f.IntVar(&opts.workers, "workers", domain.DefaultWorkers, "Monte Carlo workers for in-process runs")
	f.Uint64Var(&opts.seed, "seed", 0, "fixed Monte Carlo seed for in-process runs, 0 is random")
	f.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	return cmd
}

func (o *calcOptions) calculator() (calculator, func(), error) {
	if o.remote != "" {
		conn, err := grpcclient.NewClient(grpcclient.ClientConfig{
			Target:     o.remote,
			MaxRetries: o.retries,
			RetryDelay: 200 * time.Millisecond,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("dial %s: %w", o.remote, err)
		}
		return remoteCalculator{c: grpc_client.NewClient(conn)}, func() { _ = conn.Close() }, nil
	}

	engineOpts := []domain.EngineOption{domain.WithWorkers(o.workers)}
	if o.seed != 0 {
		engineOpts = append(engineOpts, domain.WithSeed(o.seed))
	}
	svc := application.NewProjectionService(domain.NewMonteCarloEngine(engineOpts...), nil, nil, application.ServiceConfig{
		IncludePathsDefault: false,
	})
	return svc, func() {}, nil
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return data, nil
}

// runCalc 按产品类型严格解码请求并执行
func runCalc(ctx context.Context, calc calculator, product string, input []byte) (any, error) {
	switch product {
	case "mortgage":
		return decodeAndCall(ctx, input, calc.CalculateMortgage)
	case "credit":
		return decodeAndCall(ctx, input, calc.CalculateCredit)
	case "savings":
		return decodeAndCall(ctx, input, calc.CalculateSavings)
	case "goal":
		return decodeAndCall(ctx, input, calc.CalculateGoal)
	case "montecarlo":
		return decodeAndCall(ctx, input, calc.Simulate)
	case "compare":
		return decodeAndCall(ctx, input, calc.Compare)
	default:
		return nil, fmt.Errorf("unknown product %q", product)
	}
}

func decodeAndCall[Req, Resp any](ctx context.Context, input []byte, call func(context.Context, *Req) (*Resp, error)) (any, error) {
	req := new(Req)
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return call(ctx, req)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// remoteCalculator 将 gRPC 客户端适配为 calculator
type remoteCalculator struct {
	c *grpc_client.Client
}

func (r remoteCalculator) CalculateMortgage(ctx context.Context, in *application.MortgageRequest) (*application.MortgageResponse, error) {
	return r.c.CalculateMortgage(ctx, in)
}

func (r remoteCalculator) CalculateCredit(ctx context.Context, in *application.CreditRequest) (*application.CreditResponse, error) {
	return r.c.CalculateCredit(ctx, in)
}

func (r remoteCalculator) CalculateSavings(ctx context.Context, in *application.SavingsRequest) (*application.SavingsResponse, error) {
	return r.c.CalculateSavings(ctx, in)
}

func (r remoteCalculator) CalculateGoal(ctx context.Context, in *application.GoalRequest) (*application.GoalResponse, error) {
	return r.c.CalculateGoal(ctx, in)
}

func (r remoteCalculator) Simulate(ctx context.Context, in *application.MonteCarloRequest) (*application.MonteCarloResponse, error) {
	return r.c.Simulate(ctx, in)
}

func (r remoteCalculator) Compare(ctx context.Context, in *application.CompareRequest) (*application.CompareResponse, error) {
	return r.c.Compare(ctx, in)
}
