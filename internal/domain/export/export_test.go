package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"lifecfo/internal/domain/bankfeed"
	"lifecfo/internal/domain/records"
	"lifecfo/internal/domain/scoring"
)

func TestBuild_RedactsCredentials(t *testing.T) {
	conns := []*bankfeed.Connection{
		{
			ID:              "c1",
			InstitutionName: "Test Bank",
			InstitutionID:   "ins_9",
			Accounts:        []bankfeed.SubAccount{{ID: "acc-1", Name: "Checking", Subtype: "checking"}},
			ConnectedAt:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			AccessToken:     "access-super-secret",
		},
	}
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	doc := Build(records.DefaultSnapshot(), scoring.DefaultSettings(), conns, now)

	if len(doc.Connections) != 1 {
		t.Fatalf("Connections = %d, want 1", len(doc.Connections))
	}
	if doc.Connections[0].PublicToken != bankfeed.RedactedCredential {
		t.Errorf("PublicToken = %q, want %q", doc.Connections[0].PublicToken, bankfeed.RedactedCredential)
	}
	if doc.ExportDate != "2026-03-01T12:30:00Z" {
		t.Errorf("ExportDate = %q, want RFC3339 UTC", doc.ExportDate)
	}

	encoded, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if strings.Contains(string(encoded), "access-super-secret") {
		t.Error("encoded export leaks the stored credential")
	}
}

func TestBuild_EmptyConnections(t *testing.T) {
	doc := Build(records.DefaultSnapshot(), scoring.DefaultSettings(), nil, time.Now())
	if doc.Connections == nil || len(doc.Connections) != 0 {
		t.Errorf("Connections = %v, want empty non-nil slice", doc.Connections)
	}
}

func TestRoundTrip_RecordsSurvive(t *testing.T) {
	snap := records.DefaultSnapshot()
	settings := scoring.Settings{
		TargetEmergencyFundMonths: 9,
		TargetSideIncome:          5000,
		CurrentSideIncome:         1200,
		TargetAccountBalance:      75000,
		RiskTolerance:             scoring.ToleranceHigh,
	}
	doc := Build(snap, settings, nil, time.Now())

	encoded, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	gotSnap, gotSettings, err := DecodeRecords(encoded)
	if err != nil {
		t.Fatalf("DecodeRecords() error = %v", err)
	}

	wantJSON, _ := json.Marshal(snap)
	gotJSON, _ := json.Marshal(gotSnap)
	if string(wantJSON) != string(gotJSON) {
		t.Errorf("snapshot changed through export round trip:\n got %s\nwant %s", gotJSON, wantJSON)
	}
	if gotSettings != settings {
		t.Errorf("settings = %+v, want %+v", gotSettings, settings)
	}
}

func TestDecodeRecords_LegacyDocument(t *testing.T) {
	// Documents exported before versioning carry no version field.
	legacy := `{"incomeStreams":[{"name":"Salary","amount":5000,"frequency":"monthly","date":"1st"}],"expenses":[],"investments":[],"debts":[]}`

	snap, _, err := DecodeRecords([]byte(legacy))
	if err != nil {
		t.Fatalf("DecodeRecords() error = %v", err)
	}
	if snap.Version != records.CurrentSnapshotVersion {
		t.Errorf("Version = %d, want migrated to %d", snap.Version, records.CurrentSnapshotVersion)
	}
	if len(snap.IncomeStreams) != 1 || snap.IncomeStreams[0].Name != "Salary" {
		t.Errorf("IncomeStreams = %+v, want the legacy entry", snap.IncomeStreams)
	}
}

func TestDecodeRecords_Corrupt(t *testing.T) {
	if _, _, err := DecodeRecords([]byte("{not json")); err == nil {
		t.Error("DecodeRecords() error = nil, want parse failure")
	}
}
