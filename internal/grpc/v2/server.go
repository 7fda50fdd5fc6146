package v2

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Totarae/ResearchAggregator/internal/fanout"
	"github.com/Totarae/ResearchAggregator/internal/model"
	"github.com/Totarae/ResearchAggregator/internal/service"
)

// Ключи метаданных запроса и ответа.
const (
	MetadataUserID = "x-user-id"
	MetadataRunID  = "x-run-id"
)

type GRPCServer struct {
	Service *service.ResearchService
	Mode    string
	Logger  *zap.Logger
}

func NewGRPCServer(svc *service.ResearchService, mode string, logger *zap.Logger) *GRPCServer {
	return &GRPCServer{Service: svc, Mode: mode, Logger: logger}
}

// NewServer создаёт grpc.Server с зарегистрированным Researcher и логированием вызовов.
func NewServer(srv *GRPCServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(LoggingInterceptor(srv.Logger)))
	s := grpc.NewServer(opts...)
	RegisterResearcherServer(s, srv)
	return s
}

func (s *GRPCServer) Research(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	out, err := s.Service.Research(ctx, userID(ctx), req)
	if out != nil && out.RunID != "" {
		_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataRunID, out.RunID))
	}
	if err != nil {
		var aerr *fanout.AggregateError
		if errors.As(err, &aerr) {
			return nil, status.Error(codes.Unavailable, aerr.Error())
		}
		return nil, status.Errorf(codes.Internal, "research failed: %v", err)
	}

	res, err := toStruct(out.Aggregate.Render())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return res, nil
}

func (s *GRPCServer) Health(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	res, err := structpb.NewStruct(map[string]any{
		"status":        "healthy",
		"mode":          s.Mode,
		"provider_mode": s.Service.ProviderMode(),
		"policy":        s.Service.Policy.String(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return res, nil
}

func decodeRequest(in *structpb.Struct) (model.ResearchRequest, error) {
	var req model.ResearchRequest
	data, err := json.Marshal(in.AsMap())
	if err != nil {
		return req, err
	}
	err = json.Unmarshal(data, &req)
	return req, err
}

// toStruct переводит агрегат в Struct через JSON, сохраняя имена полей из json-тегов.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func userID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(MetadataUserID); len(v) > 0 {
		return v[0]
	}
	return ""
}

// LoggingInterceptor пишет в лог метод, код и длительность каждого вызова.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("gRPC Request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
