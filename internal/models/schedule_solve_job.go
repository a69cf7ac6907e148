package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ScheduleSolveStatus captures background solve job lifecycle states.
type ScheduleSolveStatus string

const (
	ScheduleSolveStatusQueued     ScheduleSolveStatus = "QUEUED"
	ScheduleSolveStatusProcessing ScheduleSolveStatus = "PROCESSING"
	ScheduleSolveStatusFinished   ScheduleSolveStatus = "FINISHED"
	ScheduleSolveStatusFailed     ScheduleSolveStatus = "FAILED"
)

// ScheduleSolveJob is persisted background job metadata for an asynchronous
// timetable solve run. RequestPayload/ResultPayload hold the JSON-encoded
// dto.SolveRequest/dto.SolveResponse so a worker process can replay the run
// and a poller can fetch the finished result without re-running it.
type ScheduleSolveJob struct {
	ID             string              `db:"id" json:"id"`
	TermID         string              `db:"term_id" json:"term_id"`
	Status         ScheduleSolveStatus `db:"status" json:"status"`
	Progress       int                 `db:"progress" json:"progress"`
	RequestPayload ScheduleSolvePayload `db:"request_payload" json:"request_payload"`
	ResultPayload  ScheduleSolvePayload `db:"result_payload" json:"result_payload,omitempty"`
	CreatedBy      string              `db:"created_by" json:"created_by"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
	FinishedAt     *time.Time          `db:"finished_at" json:"finished_at,omitempty"`
	ErrorMessage   *string             `db:"error_message" json:"error_message,omitempty"`
}

// ScheduleSolvePayload is an opaque JSON blob persisted as JSONB, carrying
// either the originating request or the finished result.
type ScheduleSolvePayload struct {
	Raw []byte
}

// Value marshals the payload for persistence.
func (p ScheduleSolvePayload) Value() (driver.Value, error) {
	if len(p.Raw) == 0 {
		return []byte("{}"), nil
	}
	return p.Raw, nil
}

// Scan unmarshals a JSONB payload from the database.
func (p *ScheduleSolvePayload) Scan(value interface{}) error {
	if value == nil {
		p.Raw = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		p.Raw = append([]byte(nil), v...)
	case string:
		p.Raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ScheduleSolvePayload", value)
	}
	return nil
}

// Encode marshals a value into the payload's raw JSON.
func (p *ScheduleSolvePayload) Encode(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal schedule solve payload: %w", err)
	}
	p.Raw = data
	return nil
}

// Decode unmarshals the payload's raw JSON into v.
func (p ScheduleSolvePayload) Decode(v interface{}) error {
	if len(p.Raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(p.Raw, v); err != nil {
		return fmt.Errorf("unmarshal schedule solve payload: %w", err)
	}
	return nil
}
