package handler

import (
	"context"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tgatev1 "transfer-gate/api/tgatev1"
	"transfer-gate/internal/audit/domain"
	auditrepo "transfer-gate/internal/audit/repository"
	"transfer-gate/internal/platform/rbac"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// Server implements AuditService. Callers see only entries they are the actor of.
type Server struct {
	tgatev1.UnimplementedAuditServiceServer
	repo auditrepo.Repository
}

// NewServer returns a new Audit gRPC server. If repo is nil, ListAuditLogs returns Unimplemented.
func NewServer(repo auditrepo.Repository) *Server {
	return &Server{repo: repo}
}

// ListAuditLogs returns a page of the caller's audit log, newest first.
// The page token is the decimal offset of the next page.
func (s *Server) ListAuditLogs(ctx context.Context, req *tgatev1.ListAuditLogsRequest) (*tgatev1.ListAuditLogsResponse, error) {
	if s.repo == nil {
		return nil, status.Error(codes.Unimplemented, "method ListAuditLogs not implemented")
	}
	caller, err := rbac.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	pageSize := int32(defaultPageSize)
	if req.PageSize > 0 {
		pageSize = req.PageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	offset := int32(0)
	if tok := req.PageToken; tok != "" {
		if n, err := strconv.ParseInt(tok, 10, 32); err == nil && n >= 0 {
			offset = int32(n)
		}
	}
	list, err := s.repo.ListByActor(ctx, caller.String(), pageSize, offset)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to list audit logs")
	}
	logs := make([]tgatev1.AuditLog, len(list))
	for i := range list {
		logs[i] = domainAuditLogToAPI(list[i])
	}
	nextToken := ""
	if int32(len(list)) == pageSize {
		nextToken = strconv.FormatInt(int64(offset+pageSize), 10)
	}
	return &tgatev1.ListAuditLogsResponse{Logs: logs, NextPageToken: nextToken}, nil
}

func domainAuditLogToAPI(a *domain.AuditLog) tgatev1.AuditLog {
	return tgatev1.AuditLog{
		ID:        a.ID,
		Actor:     a.Actor,
		Action:    a.Action,
		Resource:  a.Resource,
		Outcome:   a.Outcome,
		IP:        a.IP,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
}
