package core

import (
	"reflect"
	"testing"
)

func fullPayload() BarcodePayload {
	return BarcodePayload{
		PCN:        "00045",
		Item:       "TEST-PART-001",
		MPN:        "TEST-MPN-123",
		PartNumber: "PART-001",
		Quantity:   "100",
		PO:         "PO-2025-001",
		Location:   "8000-8999",
		PCBType:    "Completed",
		DateCode:   "2025W42",
		MSD:        "Level 3",
	}
}

const canonicalLabel = "00045|TEST-PART-001|TEST-MPN-123|PART-001|100|PO-2025-001|8000-8999|Completed|2025W42|Level 3"

func TestEncode_CanonicalOrder(t *testing.T) {
	got := EncodeBarcode(fullPayload())
	if got != canonicalLabel {
		t.Errorf("Encode mismatch:\n got %q\nwant %q", got, canonicalLabel)
	}
}

func TestEncode_EmptyFieldsKeepSeparatorCount(t *testing.T) {
	got := EncodeBarcode(BarcodePayload{PCN: "45", Item: "JOB-1"})
	want := "00045|JOB-1||||||||"
	if got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

func TestPadPCN(t *testing.T) {
	cases := map[string]string{
		"45":     "00045",
		"00045":  "00045",
		"123456": "123456",
		"ABC":    "ABC",
		"":       "",
	}
	for in, want := range cases {
		if got := PadPCN(in); got != want {
			t.Errorf("PadPCN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecode_CanonicalPipes(t *testing.T) {
	got := DecodeBarcode(canonicalLabel)
	if !reflect.DeepEqual(got, fullPayload()) {
		t.Errorf("Decode mismatch:\n got %+v\nwant %+v", got, fullPayload())
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	p := fullPayload()
	got := DecodeBarcode(EncodeBarcode(p))
	if !reflect.DeepEqual(got, p) {
		t.Errorf("decode(encode(p)) != p:\n got %+v\nwant %+v", got, p)
	}
}

func TestDecode_Deterministic(t *testing.T) {
	inputs := []string{
		canonicalLabel,
		`{"PCN":"00045","part_number":"PART-001","qty":100}`,
		"ABCDEF123,2025W42,Level 3",
		"garbage input !!!",
	}
	for _, in := range inputs {
		first := DecodeBarcode(in)
		second := DecodeBarcode(in)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Decode(%q) not deterministic: %+v vs %+v", in, first, second)
		}
	}
}

func TestDecode_ReencodeStable(t *testing.T) {
	// Re-encoding a decoded label and decoding again yields the same
	// field set (modulo PCN zero-padding normalization).
	p := DecodeBarcode(canonicalLabel)
	again := DecodeBarcode(EncodeBarcode(p))
	if !reflect.DeepEqual(p, again) {
		t.Errorf("re-encode cycle drifted:\n got %+v\nwant %+v", again, p)
	}
}

func TestDecode_JSON(t *testing.T) {
	raw := `{"pcn":"00045","ITEM":"JOB-7","Part_Number":"PART-001","qty":100,"PCBType":"Bare"}`
	got := DecodeBarcode(raw)
	want := BarcodePayload{
		PCN:        "00045",
		Item:       "JOB-7",
		PartNumber: "PART-001",
		Quantity:   "100",
		PCBType:    "Bare",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("JSON decode mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestDecode_MalformedJSONFallsThrough(t *testing.T) {
	// Braces but not valid JSON: treated as an unclassifiable token.
	got := DecodeBarcode("{not json}")
	if got.PCN != "" || got.Quantity != "" {
		t.Errorf("malformed JSON should not populate structured fields, got %+v", got)
	}
}

func TestDecode_TrailingMissingPipeFields(t *testing.T) {
	got := DecodeBarcode("00045|JOB-1|MPN123456|PART-001|100")
	want := BarcodePayload{
		PCN:        "00045",
		Item:       "JOB-1",
		MPN:        "MPN123456",
		PartNumber: "PART-001",
		Quantity:   "100",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("partial pipe decode mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestDecode_ExtraPipeSegmentsClassified(t *testing.T) {
	// Ten positional segments with an empty MSD slot, plus an eleventh
	// segment that the classifier routes into the open slot.
	raw := "00045|JOB-1|MPN123456|PART-001|100|PO-1|8000-8999|Bare|2025W42||Level 3"
	got := DecodeBarcode(raw)
	if got.MSD != "Level 3" {
		t.Errorf("expected trailing segment classified as MSD, got %+v", got)
	}
}

func TestDecode_SparsePipesFallBackToClassifier(t *testing.T) {
	got := DecodeBarcode("PART-0001|100")
	if got.PartNumber != "PART-0001" || got.Quantity != "100" {
		t.Errorf("sparse pipe decode mismatch: %+v", got)
	}
}

func TestDecode_CommaTokens(t *testing.T) {
	got := DecodeBarcode("00045,TEST-MPN-123,100")
	want := BarcodePayload{PCN: "00045", PartNumber: "TEST-MPN-123", Quantity: "100"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("comma decode mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestDecode_SemicolonTokens(t *testing.T) {
	got := DecodeBarcode("ABCDEF123;50")
	if got.MPN != "ABCDEF123" || got.Quantity != "50" {
		t.Errorf("semicolon decode mismatch: %+v", got)
	}
}

func TestDecode_WhitespaceTokens(t *testing.T) {
	got := DecodeBarcode("ABCDEF123 50")
	if got.MPN != "ABCDEF123" || got.Quantity != "50" {
		t.Errorf("whitespace decode mismatch: %+v", got)
	}
}

func TestDecode_ClassifierPriorityIsOrdered(t *testing.T) {
	// MPN outranks DateCode, so "2025W42" only lands in DateCode once an
	// earlier token has claimed the MPN slot.
	got := DecodeBarcode("ABCDEF123,2025W42,Level 3")
	want := BarcodePayload{MPN: "ABCDEF123", DateCode: "2025W42", MSD: "Level 3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("priority decode mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestDecode_QuantityNeverFirstToken(t *testing.T) {
	got := DecodeBarcode("ready-to-ship,250")
	if got.PCBType != "ready-to-ship" {
		t.Errorf("expected PCBType claim, got %+v", got)
	}
	if got.Quantity != "250" {
		t.Errorf("expected second token as quantity, got %+v", got)
	}
}

func TestDecode_POPatterns(t *testing.T) {
	got := DecodeBarcode("ABCDEF123,PO-2025-001")
	if got.PO != "PO-2025-001" {
		t.Errorf("expected PO claim, got %+v", got)
	}
}

func TestDecode_SingleToken(t *testing.T) {
	cases := []struct {
		raw  string
		want BarcodePayload
	}{
		{"00045", BarcodePayload{PCN: "00045"}},
		{"PART-001", BarcodePayload{PartNumber: "PART-001"}},
		{"foo@bar", BarcodePayload{MPN: "foo@bar"}},
	}
	for _, c := range cases {
		if got := DecodeBarcode(c.raw); !reflect.DeepEqual(got, c.want) {
			t.Errorf("Decode(%q) = %+v, want %+v", c.raw, got, c.want)
		}
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	if got := DecodeBarcode("   "); !reflect.DeepEqual(got, BarcodePayload{}) {
		t.Errorf("blank input should decode to empty payload, got %+v", got)
	}
}

func TestDecode_NeverPanics(t *testing.T) {
	inputs := []string{
		"", "|", "||||||||||", "{", "}", "{}", ",,,,,", ";;;", "\t\n",
		"\x00\x01\x02", "😀|🚀", "{\"pcn\": [1,2,3]}",
	}
	for _, in := range inputs {
		// Total function: any input yields a payload.
		_ = DecodeBarcode(in)
	}
}
