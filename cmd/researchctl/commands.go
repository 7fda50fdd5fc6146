package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Totarae/ResearchAggregator/internal/events"
	"github.com/Totarae/ResearchAggregator/internal/fanout"
	grpcv2 "github.com/Totarae/ResearchAggregator/internal/grpc/v2"
	"github.com/Totarae/ResearchAggregator/internal/model"
	"github.com/Totarae/ResearchAggregator/internal/provider"
	"github.com/Totarae/ResearchAggregator/internal/service"
	"github.com/Totarae/ResearchAggregator/internal/storage"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "researchctl",
		Short:         "CLI for the research aggregator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newResearchCmd(), newDemoCmd())
	return rootCmd
}

const (
	defaultHTTPAddr = "http://localhost:8080"
	defaultGRPCAddr = "localhost:3200"
)

type researchOptions struct {
	addr    string
	useGRPC bool
	timeout time.Duration
	userID  string
	req     model.ResearchRequest
	amount  string
}

func newResearchCmd() *cobra.Command {
	var opts researchOptions

	cmd := &cobra.Command{
		Use:   "research",
		Short: "Research a destination through a running aggregator",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.req.Amount = model.Amount(opts.amount)
			opts.addr = resolveAddr(opts.addr, opts.useGRPC)

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var (
				out any
				err error
			)
			if opts.useGRPC {
				out, err = researchGRPC(ctx, opts)
			} else {
				out, err = researchHTTP(ctx, opts)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.addr, "addr", "a", "", "aggregator address (default "+defaultHTTPAddr+", or "+defaultGRPCAddr+" with --grpc)")
	f.BoolVar(&opts.useGRPC, "grpc", false, "call the gRPC API instead of HTTP")
	f.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall request timeout")
	f.StringVar(&opts.userID, "user", "", "user id sent with gRPC calls")
	f.StringVarP(&opts.req.City, "city", "c", "Tokyo", "city to research")
	f.StringVar(&opts.req.NewsQuery, "news-query", "", "news search query (default: \"<city> travel OR tourism\")")
	f.StringVar(&opts.req.FromCurrency, "from", "USD", "base currency")
	f.StringVar(&opts.req.ToCurrency, "to", "EUR", "target currency")
	f.StringVar(&opts.amount, "amount", "1", "amount to convert")
	return cmd
}

// resolveAddr подставляет адрес по умолчанию для выбранного транспорта.
// Для gRPC схема http:// или https:// отбрасывается.
func resolveAddr(addr string, useGRPC bool) string {
	if !useGRPC {
		if addr == "" {
			return defaultHTTPAddr
		}
		return addr
	}
	if addr == "" {
		return defaultGRPCAddr
	}
	for _, scheme := range []string{"http://", "https://"} {
		addr = strings.TrimPrefix(addr, scheme)
	}
	return strings.TrimSuffix(addr, "/")
}

func researchHTTP(ctx context.Context, opts researchOptions) (any, error) {
	body, err := json.Marshal(opts.req)
	if err != nil {
		return nil, err
	}

	addr := strings.TrimSuffix(opts.addr, "/")
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+"/api/research", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: opts.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func researchGRPC(ctx context.Context, opts researchOptions) (any, error) {
	conn, err := grpc.NewClient(opts.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	data, err := json.Marshal(opts.req)
	if err != nil {
		return nil, err
	}
	in := &structpb.Struct{}
	if err := in.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	if opts.userID != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, grpcv2.MetadataUserID, opts.userID)
	}
	out, err := grpcv2.NewResearcherClient(conn).Research(ctx, in)
	if err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func newDemoCmd() *cobra.Command {
	var (
		latency time.Duration
		policy  string
		city    string
		amount  string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the aggregation in-process against mock providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := fanout.ParsePolicy(policy)
			if err != nil {
				return err
			}
			store, err := storage.NewFileStore("", zap.NewNop())
			if err != nil {
				return err
			}

			d := provider.FixedDelay(latency)
			set := &provider.Set{
				Weather:  &provider.MockWeather{Delay: d},
				News:     &provider.MockNews{Delay: d},
				Exchange: &provider.MockExchange{Delay: d},
				Mode:     "mock",
			}
			svc := service.NewResearchService(set, store, events.Nop{}, zap.NewNop(), p)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Researching %s (3 calls in parallel, %s each)...\n", city, latency)

			start := time.Now()
			out, err := svc.Research(cmd.Context(), "", model.ResearchRequest{
				City:         city,
				FromCurrency: "USD",
				ToCurrency:   "JPY",
				Amount:       model.Amount(amount),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Completed in %s\n", time.Since(start).Round(time.Millisecond))
			return printJSON(w, out.Aggregate.Render())
		},
	}

	f := cmd.Flags()
	f.DurationVar(&latency, "latency", 800*time.Millisecond, "simulated latency of each provider")
	f.StringVar(&policy, "policy", "best-effort", "aggregate policy: best-effort or all-or-nothing")
	f.StringVarP(&city, "city", "c", "Tokyo", "city to research")
	f.StringVar(&amount, "amount", "1000", "USD amount to convert to JPY")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
