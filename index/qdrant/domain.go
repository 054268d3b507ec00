package qdrant

import "fmt"

// statusError carries the HTTP status so callers can tell a missing
// collection apart from other qdrant failures.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant http %d: %s", e.code, e.body)
}

type qdrantStatus struct {
	State string
	Error string
}

func (s *qdrantStatus) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) > 0 && str[0] == '"' {
		s.State = str[1 : len(str)-1]
		return nil
	}
	// {"error": "..."} shape
	s.State = "error"
	s.Error = str
	return nil
}

type qdrantEnvelope[T any] struct {
	Status qdrantStatus `json:"status"`
	Result T            `json:"result"`
}

type qdrantPointResult struct {
	Id      string         `json:"id"`
	Score   float32        `json:"score"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

type qdrantCollectionInfo struct {
	Config struct {
		Params struct {
			Vectors struct {
				Size int `json:"size"`
			} `json:"vectors"`
		} `json:"params"`
	} `json:"config"`
}
