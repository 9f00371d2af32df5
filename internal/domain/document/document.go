package document

import (
	"strings"
	"time"

	"github.com/kailas-cloud/firequery/internal/domain/value"
)

// IDField is the attribute injected into records decoded from a query result.
const IDField = "id"

// Raw is a document as returned by the REST endpoint.
type Raw struct {
	Name       string       `json:"name,omitempty"`
	Fields     value.Fields `json:"fields,omitempty"`
	CreateTime *time.Time   `json:"createTime,omitempty"`
	UpdateTime *time.Time   `json:"updateTime,omitempty"`
}

// Record is a decoded document: plain Go values keyed by field name.
type Record map[string]any

// ID returns the last slash-delimited segment of a resource name.
func ID(resourceName string) string {
	if i := strings.LastIndexByte(resourceName, '/'); i >= 0 {
		return resourceName[i+1:]
	}
	return resourceName
}

// Decode turns a field map into a Record. It returns nil when there are no
// fields. A non-empty resourceName adds an "id" attribute holding the
// document identifier, overriding any field of the same name.
func Decode(fields value.Fields, resourceName string) Record {
	if len(fields) == 0 {
		return nil
	}
	rec := Record(value.DecodeFields(fields))
	if resourceName != "" {
		rec[IDField] = ID(resourceName)
	}
	return rec
}
