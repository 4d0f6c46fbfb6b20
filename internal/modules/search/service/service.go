package service

import (
	"context"
	"strings"

	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/identity"
	roster "anoa.com/collegeattendance/internal/modules/roster/repository"
	scheduleDto "anoa.com/collegeattendance/internal/modules/schedule/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const searchLimit = 20

type SearchService interface {
	SearchBatch(ctx context.Context, faculty identity.Faculty, query string) ([]scheduleDto.StudentResponse, error)
}

type searchService struct {
	directory Directory
	roster    roster.RosterRepository
	log       *zap.Logger
}

// NewSearchService falls back to the database when directory is nil or
// the search backend fails.
func NewSearchService(directory Directory, roster roster.RosterRepository, log *zap.Logger) SearchService {
	return &searchService{directory: directory, roster: roster, log: log}
}

func (s *searchService) SearchBatch(ctx context.Context, faculty identity.Faculty, query string) ([]scheduleDto.StudentResponse, error) {
	query = strings.TrimSpace(query)
	branch, year := faculty.Profile.Branch, faculty.Profile.Year

	if s.directory != nil && query != "" {
		ids, err := s.directory.SearchBatch(ctx, branch, year, query, searchLimit)
		if err == nil {
			students, err := s.roster.FindStudentsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return scheduleDto.NewStudentResponses(inHitOrder(faculty, ids, students)), nil
		}
		s.log.Warn("student search failed, falling back to database", zap.Error(err))
	}

	students, err := s.roster.SearchStudents(ctx, branch, year, query, searchLimit)
	if err != nil {
		return nil, err
	}
	return scheduleDto.NewStudentResponses(students), nil
}

// inHitOrder arranges students in the order the index ranked them. Hits
// outside the faculty's batch are dropped since the index may lag behind
// roster changes.
func inHitOrder(faculty identity.Faculty, ids []uuid.UUID, students []entity.Student) []entity.Student {
	byID := make(map[uuid.UUID]entity.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	out := make([]entity.Student, 0, len(students))
	for _, id := range ids {
		st, ok := byID[id]
		if !ok || !faculty.Profile.Teaches(st) {
			continue
		}
		delete(byID, id)
		out = append(out, st)
	}
	return out
}
