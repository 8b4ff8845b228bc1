// Package cli provides output helpers for the Kensho CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hyperjump/kensho/internal/models"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteDocuments writes document entries to w in the given format.
func WriteDocuments(w io.Writer, docs []*models.DocumentEntry, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, docs)
	}
	fmt.Fprintf(w, "\n%d document(s)\n\n", len(docs))
	for _, doc := range docs {
		writeDocumentText(w, doc)
	}
	return nil
}

// WriteDocument writes one document entry to w in the given format.
func WriteDocument(w io.Writer, doc *models.DocumentEntry, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, doc)
	}
	writeDocumentText(w, doc)
	return nil
}

func writeDocumentText(w io.Writer, doc *models.DocumentEntry) {
	fmt.Fprintf(w, "ID: %d\n", doc.ID)
	fmt.Fprintf(w, "Commitment: %s\n", Truncate(doc.Commitment, 64))
	fmt.Fprintf(w, "Owner: %s\n", doc.Owner)
	fmt.Fprintf(w, "Registered: %s\n\n", doc.RegisteredAt.Format(time.RFC3339))
}

// WriteModels writes model entries to w in the given format.
func WriteModels(w io.Writer, mods []*models.ModelEntry, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, mods)
	}
	fmt.Fprintf(w, "\n%d model(s)\n\n", len(mods))
	for _, m := range mods {
		writeModelText(w, m)
	}
	return nil
}

// WriteModel writes one model entry to w in the given format.
func WriteModel(w io.Writer, m *models.ModelEntry, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, m)
	}
	writeModelText(w, m)
	return nil
}

func writeModelText(w io.Writer, m *models.ModelEntry) {
	fmt.Fprintf(w, "ID: %d\n", m.ID)
	fmt.Fprintf(w, "Name: %s\n", m.ModelName)
	fmt.Fprintf(w, "Hash: %s\n", Truncate(m.ModelHash, 64))
	fmt.Fprintf(w, "Approved: %t\n", m.Approved)
	fmt.Fprintf(w, "Registered: %s\n\n", m.RegisteredAt.Format(time.RFC3339))
}

// WriteQueries writes query entries to w in the given format.
func WriteQueries(w io.Writer, queries []*models.QueryEntry, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, queries)
	}
	fmt.Fprintf(w, "\n%d query record(s)\n\n", len(queries))
	for _, q := range queries {
		writeQueryText(w, q)
	}
	return nil
}

// WriteQuery writes one query entry to w in the given format.
func WriteQuery(w io.Writer, q *models.QueryEntry, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, q)
	}
	writeQueryText(w, q)
	return nil
}

func writeQueryText(w io.Writer, q *models.QueryEntry) {
	fmt.Fprintf(w, "ID: %d [%s]\n", q.ID, q.Status)
	fmt.Fprintf(w, "Document: %d | Model: %d\n", q.DocumentID, q.ModelID)
	fmt.Fprintf(w, "Commitment: %s\n", Truncate(q.Commitment, 64))
	fmt.Fprintf(w, "Model hash: %s\n", Truncate(q.ModelHash, 64))
	fmt.Fprintf(w, "Claimed at: %d | Verified: %s\n\n", q.Timestamp, q.VerifiedAt.Format(time.RFC3339))
}

// WriteVerification writes a verification outcome to w in the given format.
func WriteVerification(w io.Writer, resp *models.VerificationResponse, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, resp)
	}
	fmt.Fprintf(w, "\n%s (query id %d, valid=%t)\n\n", resp.Message, resp.QueryID, resp.Valid)
	if resp.Query != nil {
		writeQueryText(w, resp.Query)
	}
	return nil
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
