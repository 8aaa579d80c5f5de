package probe

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/zatoshilabs/zord/internal/fetch"
	"github.com/zatoshilabs/zord/internal/indexer"
	"github.com/zatoshilabs/zord/internal/registry"
)

// Outcome is the verdict for one endpoint. Detail is the response summary
// for a pass and the failure reason otherwise.
type Outcome struct {
	Path        string        `json:"path"`
	Kind        registry.Kind `json:"kind"`
	Group       string        `json:"group"`
	Passed      bool          `json:"passed"`
	Status      int           `json:"status,omitempty"`
	ContentType string        `json:"content_type,omitempty"`
	Size        int           `json:"size"`
	Detail      string        `json:"detail"`
	Duration    time.Duration `json:"-"`
}

// Failure formats a failed outcome as "path -> reason".
func (o Outcome) Failure() string {
	return o.Path + " -> " + o.Detail
}

// Classify applies the acceptance rules of spec.Kind to a response or a
// transport error. Exactly one of resp and err is expected to be non-nil.
//
// Every kind requires status 200. JSON bodies must also parse, and an
// object body with a truthy "error" member fails. HTML and bytes bodies
// are never inspected.
func Classify(spec registry.EndpointSpec, resp *fetch.Response, err error) Outcome {
	o := Outcome{Path: spec.Path, Kind: spec.Kind, Group: spec.Group}

	if err != nil {
		o.Detail = "network error: " + transportReason(err)
		return o
	}

	o.Status = resp.Status
	o.ContentType = resp.ContentType()
	o.Size = len(resp.Body)

	if resp.Status != http.StatusOK {
		o.Detail = fmt.Sprintf("HTTP %d", resp.Status)
		return o
	}

	if spec.Kind == registry.KindJSON {
		errField, isObject, decErr := indexer.ErrorOf(resp.Body)
		if decErr != nil {
			o.Detail = "invalid JSON"
			return o
		}
		if isObject && errField.Truthy() {
			o.Detail = "error: " + errField.String()
			return o
		}
	}

	o.Passed = true
	o.Detail = fmt.Sprintf("%s; %d bytes", o.ContentType, o.Size)
	return o
}

// transportReason drops the method and URL that net/http prefixes to
// client errors.
func transportReason(err error) string {
	var te *fetch.TransportError
	if errors.As(err, &te) && te.Timeout() {
		return "timeout"
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	if te != nil {
		return te.Err.Error()
	}
	return err.Error()
}
