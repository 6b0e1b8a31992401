package statement

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeUUID_Canonicalizes(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "already canonical",
			raw:  "11111111-1111-1111-1111-111111111111",
			want: "11111111-1111-1111-1111-111111111111",
		},
		{
			name: "uppercase",
			raw:  "AAAAAAAA-BBBB-CCCC-DDDD-EEEEFFFF0000",
			want: "aaaaaaaa-bbbb-cccc-dddd-eeeeffff0000",
		},
		{
			name: "mixed case",
			raw:  "Aa6Bbe4C-0B1c-4dD2-9e3F-00A1b2C3d4E5",
			want: "aa6bbe4c-0b1c-4dd2-9e3f-00a1b2c3d4e5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeUUID(tc.raw)
			if err != nil {
				t.Fatalf("NormalizeUUID(%q) failed: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("NormalizeUUID(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeUUID_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"not-a-uuid",
		"11111111-1111-1111-1111",
		"11111111-1111-1111-1111-11111111111z",
	}

	for _, raw := range invalid {
		_, err := NormalizeUUID(raw)
		if err == nil {
			t.Errorf("NormalizeUUID(%q) succeeded, want error", raw)
			continue
		}
		if !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("NormalizeUUID(%q) error = %v, want ErrInvalidIdentifier", raw, err)
		}
	}
}

func TestNewID_IsCanonical(t *testing.T) {
	id := NewID()
	normalized, err := NormalizeUUID(id)
	if err != nil {
		t.Fatalf("NewID() produced invalid id %q: %v", id, err)
	}
	if normalized != id {
		t.Errorf("NewID() = %q, not canonical (normalized %q)", id, normalized)
	}
}

func TestExtractIFIKind(t *testing.T) {
	testCases := []struct {
		name  string
		agent map[string]any
		want  IFIKind
	}{
		{
			name:  "mbox",
			agent: map[string]any{"mbox": "mailto:alice@example.com"},
			want:  KindMbox,
		},
		{
			name:  "mbox_sha1sum",
			agent: map[string]any{"mbox_sha1sum": "ebd31e95054c018b10727ccffd2ef2ec3a016ee9"},
			want:  KindMboxSHA1Sum,
		},
		{
			name:  "openid",
			agent: map[string]any{"openid": "http://openid.example.com/alice"},
			want:  KindOpenID,
		},
		{
			name: "account",
			agent: map[string]any{
				"account": map[string]any{"homePage": "http://example.com", "name": "alice"},
			},
			want: KindAccount,
		},
		{
			name:  "no identifier",
			agent: map[string]any{"name": "Anonymous"},
			want:  KindNone,
		},
		{
			name: "two identifiers is ambiguous",
			agent: map[string]any{
				"mbox":   "mailto:alice@example.com",
				"openid": "http://openid.example.com/alice",
			},
			want: KindNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractIFIKind(tc.agent); got != tc.want {
				t.Errorf("ExtractIFIKind() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractObjectType(t *testing.T) {
	if got := ExtractObjectType(map[string]any{"objectType": "Group"}); got != "Group" {
		t.Errorf("ExtractObjectType(Group) = %q", got)
	}
	if got := ExtractObjectType(map[string]any{"objectType": "Agent"}); got != "Agent" {
		t.Errorf("ExtractObjectType(Agent) = %q", got)
	}
	if got := ExtractObjectType(map[string]any{}); got != "Agent" {
		t.Errorf("ExtractObjectType(unspecified) = %q, want Agent default", got)
	}
}

func TestParseTimestamp_AcceptedShapes(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "rfc3339",
			in:   "2024-05-01T12:00:00Z",
			want: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with fraction",
			in:   "2024-05-01T12:00:00.500Z",
			want: time.Date(2024, 5, 1, 12, 0, 0, 500000000, time.UTC),
		},
		{
			name: "offset without colon",
			in:   "2024-05-01T12:00:00+0200",
			want: time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name: "date only",
			in:   "2024-05-01",
			want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.in)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) failed: %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := ParseTimestamp("yesterday")
	if err == nil {
		t.Fatal("expected error for unparsable timestamp")
	}
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("error = %v, want ErrInvalidTimestamp", err)
	}
}

func TestFormatTimestamp_UTCWithMillis(t *testing.T) {
	in := time.Date(2024, 5, 1, 14, 30, 0, 250000000, time.FixedZone("CEST", 2*3600))
	got := FormatTimestamp(in)
	want := "2024-05-01T12:30:00.250Z"
	if got != want {
		t.Errorf("FormatTimestamp() = %q, want %q", got, want)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	in := time.Date(2024, 5, 1, 12, 0, 0, 250000000, time.UTC)
	parsed, err := ParseTimestamp(FormatTimestamp(in))
	if err != nil {
		t.Fatalf("round trip parse failed: %v", err)
	}
	if !parsed.Equal(in) {
		t.Errorf("round trip = %v, want %v", parsed, in)
	}
}
