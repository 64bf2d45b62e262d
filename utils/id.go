package utils

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewRequestID 生成按时间排序的 ULID
func NewRequestID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewTraceID 错误追踪ID
func NewTraceID() string {
	return uuid.NewString()
}
