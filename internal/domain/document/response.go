package document

import "time"

// Entry is one element of a :runQuery response stream. Entries without a
// document carry progress information such as skipped results.
type Entry struct {
	Document       *Raw       `json:"document,omitempty"`
	ReadTime       *time.Time `json:"readTime,omitempty"`
	SkippedResults int        `json:"skippedResults,omitempty"`
	Transaction    string     `json:"transaction,omitempty"`
}

// FilterEntries decodes the documents of a response in server order.
// Entries without a document and documents without fields are dropped.
// The result is never nil.
func FilterEntries(entries []Entry) []Record {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		if e.Document == nil {
			continue
		}
		if rec := Decode(e.Document.Fields, e.Document.Name); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}
