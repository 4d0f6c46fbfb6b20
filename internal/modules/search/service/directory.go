package service

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/collegeattendance/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const studentsIndex = "students"

// Directory is a full text index of students.
type Directory interface {
	IndexStudent(ctx context.Context, student entity.Student) error
	SearchBatch(ctx context.Context, branch entity.Branch, year int, query string, limit int) ([]uuid.UUID, error)
}

type meiliDirectory struct {
	client meilisearch.ServiceManager
	log    *zap.Logger
}

type studentDoc struct {
	ID           string `json:"id"`
	HallTicketID string `json:"hall_ticket_id"`
	Name         string `json:"name"`
	Branch       string `json:"branch"`
	Year         int    `json:"year"`
}

func NewMeiliDirectory(client meilisearch.ServiceManager, log *zap.Logger) Directory {
	d := &meiliDirectory{client: client, log: log}
	d.initIndex()
	return d
}

func (d *meiliDirectory) initIndex() {
	filterableAttrs := []string{"branch", "year"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := d.client.Index(studentsIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		d.log.Warn("failed to update students filterable attributes", zap.Error(err))
	}

	searchable := []string{"hall_ticket_id", "name"}
	if _, err := d.client.Index(studentsIndex).UpdateSearchableAttributes(&searchable); err != nil {
		d.log.Warn("failed to update students searchable attributes", zap.Error(err))
	}
}

func (d *meiliDirectory) IndexStudent(ctx context.Context, student entity.Student) error {
	doc := studentDoc{
		ID:           student.ID.String(),
		HallTicketID: student.HallTicketID,
		Name:         student.Name,
		Branch:       string(student.Branch),
		Year:         student.Year,
	}

	pk := "id"
	task, err := d.client.Index(studentsIndex).AddDocuments([]studentDoc{doc}, &pk)
	if err != nil {
		return err
	}
	d.log.Debug("indexed student", zap.String("hall_ticket_id", student.HallTicketID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (d *meiliDirectory) SearchBatch(ctx context.Context, branch entity.Branch, year int, query string, limit int) ([]uuid.UUID, error) {
	raw, err := d.client.Index(studentsIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Filter: fmt.Sprintf("branch = %q AND year = %d", branch, year),
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Hits []studentDoc `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
