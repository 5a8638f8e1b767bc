// Package export assembles the full household dataset into a single
// portable document for backup and re-import.
package export

import (
	"encoding/json"
	"time"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/domain/scoring"
)

// ConnectionExport is the serialized form of a linked institution. The
// stored credential is always replaced with the redaction marker.
type ConnectionExport struct {
	ID              string               `json:"id"`
	InstitutionName string               `json:"institutionName"`
	InstitutionID   string               `json:"institutionId"`
	Accounts        []bankfeed.SubAccount `json:"accounts"`
	ConnectedAt     time.Time            `json:"connectedAt"`
	PublicToken     string               `json:"publicToken"`
}

// Document is the complete export payload
type Document struct {
	Version         int                    `json:"version"`
	IncomeStreams   []records.IncomeStream `json:"incomeStreams"`
	Expenses        []records.Expense      `json:"expenses"`
	Investments     []records.Investment   `json:"investments"`
	Debts           []records.Debt         `json:"debts"`
	JobExitSettings scoring.Settings       `json:"jobExitSettings"`
	Connections     []ConnectionExport     `json:"connections"`
	ExportDate      string                 `json:"exportDate"`
}

// Build assembles an export document. Credentials never leave the store;
// every connection entry carries the redaction marker instead.
func Build(snap records.Snapshot, settings scoring.Settings, conns []*bankfeed.Connection, now time.Time) Document {
	doc := Document{
		Version:         snap.Version,
		IncomeStreams:   snap.IncomeStreams,
		Expenses:        snap.Expenses,
		Investments:     snap.Investments,
		Debts:           snap.Debts,
		JobExitSettings: settings,
		Connections:     make([]ConnectionExport, 0, len(conns)),
		ExportDate:      now.UTC().Format(time.RFC3339),
	}
	for _, c := range conns {
		doc.Connections = append(doc.Connections, ConnectionExport{
			ID:              c.ID,
			InstitutionName: c.InstitutionName,
			InstitutionID:   c.InstitutionID,
			Accounts:        c.Accounts,
			ConnectedAt:     c.ConnectedAt,
			PublicToken:     bankfeed.RedactedCredential,
		})
	}
	return doc
}

// Encode renders the document as indented JSON suitable for download
func Encode(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeRecords extracts the four record collections from a previously
// exported document. Connections are not restorable; their credentials
// were redacted on the way out.
func DecodeRecords(data []byte) (records.Snapshot, scoring.Settings, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return records.Snapshot{}, scoring.Settings{}, err
	}
	snap := records.Snapshot{
		Version:       doc.Version,
		IncomeStreams: doc.IncomeStreams,
		Expenses:      doc.Expenses,
		Investments:   doc.Investments,
		Debts:         doc.Debts,
	}
	snap, err := records.MigrateSnapshot(snap)
	if err != nil {
		return records.Snapshot{}, scoring.Settings{}, err
	}
	return snap, doc.JobExitSettings, nil
}
