package service

import (
	"capsule-labeling-be/internal/dto"
	"capsule-labeling-be/internal/pkg/logger"
)

const maxHistoryPage = 200

type IHistoryService interface {
	List(limit, offset int) ([]*dto.HistoryEntryResponse, error)
}

type historyService struct {
	auditLogger logger.ILogger
}

func NewHistoryService(auditLogger logger.ILogger) IHistoryService {
	return &historyService{auditLogger: auditLogger}
}

// List returns audit entries newest first.
func (s *historyService) List(limit, offset int) ([]*dto.HistoryEntryResponse, error) {
	if limit <= 0 || limit > maxHistoryPage {
		limit = maxHistoryPage
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.auditLogger.GetLogs("", limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		if e.Module != auditModule {
			continue
		}
		res = append(res, &dto.HistoryEntryResponse{
			Id:        e.Id,
			Event:     e.Message,
			Timestamp: e.Timestamp,
			Details:   e.Details,
		})
	}
	return res, nil
}
