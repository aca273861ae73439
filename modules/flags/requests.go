package flags

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/flagkit/pkg/flag"
)

var errMalformedBody = errors.New("malformed request body")

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return nil
}

// flagRequest is the body for flag create and update. Update replaces
// the whole definition; the key in the path wins over the body.
type flagRequest struct {
	Key          string          `json:"key"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Type         flag.Type       `json:"type"`
	Value        json.RawMessage `json:"value"`
	DefaultValue json.RawMessage `json:"default_value"`
	Enabled      bool            `json:"enabled"`
	Rules        []flag.Rule     `json:"rules,omitempty"`
	Rollout      *flag.Rollout   `json:"rollout,omitempty"`
	Variants     []flag.Variant  `json:"variants,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
}

func (r flagRequest) toFlag() flag.Flag {
	return flag.Flag{
		Key:          r.Key,
		Name:         r.Name,
		Description:  r.Description,
		Type:         r.Type,
		Value:        r.Value,
		DefaultValue: r.DefaultValue,
		Enabled:      r.Enabled,
		Rules:        r.Rules,
		Rollout:      r.Rollout,
		Variants:     r.Variants,
		Tags:         r.Tags,
	}
}

// webhookRequest is the body for webhook registration and removal.
type webhookRequest struct {
	URL string `json:"url"`
}

// evaluateRequest is the body for flag evaluation. Record queues an
// exposure event when the decision assigned an experiment arm; Metric
// is the measurement attached to that exposure, defaulting to 1.
type evaluateRequest struct {
	ID         string                `json:"id"`
	Attributes map[string]flag.Value `json:"attributes,omitempty"`
	Now        *time.Time            `json:"now,omitempty"`
	Record     bool                  `json:"record,omitempty"`
	Metric     *float64              `json:"metric,omitempty"`
}

func (r evaluateRequest) context() flag.Context {
	return flag.Context{ID: r.ID, Attributes: r.Attributes, Now: r.Now}
}

func (r evaluateRequest) metric() float64 {
	if r.Metric != nil {
		return *r.Metric
	}
	return 1
}
