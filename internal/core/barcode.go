package core

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// BarcodePayload is the ephemeral 10-slot label record carried by a
// barcode string. Empty slots mean "unknown"; nothing here is persisted
// directly (only the finalized encode output inside PCNRecord).
type BarcodePayload struct {
	PCN        string `json:"pcn,omitempty"`
	Item       string `json:"item,omitempty"`
	MPN        string `json:"mpn,omitempty"`
	PartNumber string `json:"part_number,omitempty"`
	Quantity   string `json:"quantity,omitempty"`
	PO         string `json:"po,omitempty"`
	Location   string `json:"location,omitempty"`
	PCBType    string `json:"pcb_type,omitempty"`
	DateCode   string `json:"date_code,omitempty"`
	MSD        string `json:"msd,omitempty"`
}

// slot indexes the payload fields in canonical wire order:
// PCN|Item|MPN|PartNumber|QTY|PO|Location|PCBType|DateCode|MSD.
type slot int

const (
	slotPCN slot = iota
	slotItem
	slotMPN
	slotPartNumber
	slotQuantity
	slotPO
	slotLocation
	slotPCBType
	slotDateCode
	slotMSD
	numSlots
)

func (p *BarcodePayload) get(s slot) string {
	switch s {
	case slotPCN:
		return p.PCN
	case slotItem:
		return p.Item
	case slotMPN:
		return p.MPN
	case slotPartNumber:
		return p.PartNumber
	case slotQuantity:
		return p.Quantity
	case slotPO:
		return p.PO
	case slotLocation:
		return p.Location
	case slotPCBType:
		return p.PCBType
	case slotDateCode:
		return p.DateCode
	case slotMSD:
		return p.MSD
	}
	return ""
}

func (p *BarcodePayload) set(s slot, v string) {
	switch s {
	case slotPCN:
		p.PCN = v
	case slotItem:
		p.Item = v
	case slotMPN:
		p.MPN = v
	case slotPartNumber:
		p.PartNumber = v
	case slotQuantity:
		p.Quantity = v
	case slotPO:
		p.PO = v
	case slotLocation:
		p.Location = v
	case slotPCBType:
		p.PCBType = v
	case slotDateCode:
		p.DateCode = v
	case slotMSD:
		p.MSD = v
	}
}

// PadPCN zero-pads a numeric control number to the canonical 5 digits.
// Non-numeric or already-long values pass through unchanged.
func PadPCN(pcn string) string {
	if pcn == "" || len(pcn) >= 5 {
		return pcn
	}
	if _, err := strconv.Atoi(pcn); err != nil {
		return pcn
	}
	return strings.Repeat("0", 5-len(pcn)) + pcn
}

// EncodeBarcode joins the 10 canonical fields with pipes. Empty fields
// become empty segments, so the separator count is always 9.
func EncodeBarcode(p BarcodePayload) string {
	fields := [numSlots]string{
		PadPCN(p.PCN), p.Item, p.MPN, p.PartNumber, p.Quantity,
		p.PO, p.Location, p.PCBType, p.DateCode, p.MSD,
	}
	return strings.Join(fields[:], "|")
}

// Heuristic classifier rules, applied to each token in fixed priority
// until one claims an empty slot. The priority order is data: each rule
// is independently testable and reorderable.
var (
	rePCN      = regexp.MustCompile(`^\d{5}$`)
	reQty      = regexp.MustCompile(`^\d{1,4}$`)
	reMPN      = regexp.MustCompile(`^[A-Za-z0-9]{6,}$`)
	rePODash   = regexp.MustCompile(`^\d+-\d+(-\d+)?$`)
	reDateCode = regexp.MustCompile(`^(\d{4}|\d{2})[Ww]\d{1,2}\d*$`)
	reMSDLevel = regexp.MustCompile(`(?i)^level\s*\d$`)
	reMSDHours = regexp.MustCompile(`(?i)^\d+\s*hrs@\S+$`)
	reItem     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{1,7}$`)
	rePartNum  = regexp.MustCompile(`^[A-Za-z0-9-]{4,}$`)
	reAlnum    = regexp.MustCompile(`[A-Za-z0-9]`)
	reToken    = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

type classifierRule struct {
	name   string
	target slot
	claims func(token string, index int) bool
}

var classifierRules = []classifierRule{
	{"pcn", slotPCN, func(t string, _ int) bool {
		return rePCN.MatchString(t)
	}},
	{"quantity", slotQuantity, func(t string, i int) bool {
		if i == 0 || !reQty.MatchString(t) {
			return false
		}
		n, _ := strconv.Atoi(t)
		return n > 0 && n <= MaxStockQuantity
	}},
	{"mpn", slotMPN, func(t string, _ int) bool {
		return reMPN.MatchString(t)
	}},
	{"pcb_type", slotPCBType, func(t string, _ int) bool {
		l := strings.ToLower(t)
		return strings.Contains(l, "bare") || strings.Contains(l, "partial") ||
			strings.Contains(l, "completed") || strings.Contains(l, "ready")
	}},
	{"po", slotPO, func(t string, _ int) bool {
		return strings.HasPrefix(strings.ToUpper(t), "PO") || rePODash.MatchString(t)
	}},
	{"date_code", slotDateCode, func(t string, _ int) bool {
		return reDateCode.MatchString(t)
	}},
	{"msd", slotMSD, func(t string, _ int) bool {
		return reMSDLevel.MatchString(t) || reMSDHours.MatchString(t)
	}},
	{"item", slotItem, func(t string, _ int) bool {
		return reItem.MatchString(t)
	}},
	{"part_number", slotPartNumber, func(t string, _ int) bool {
		return rePartNum.MatchString(t) && reAlnum.MatchString(t)
	}},
}

// classifyTokens walks tokens in original order and lets the first rule
// with an empty target slot claim each one. Unclaimed tokens are dropped.
func classifyTokens(p *BarcodePayload, tokens []string, startIndex int) {
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		for _, rule := range classifierRules {
			if p.get(rule.target) != "" {
				continue
			}
			if rule.claims(tok, startIndex+i) {
				p.set(rule.target, tok)
				break
			}
		}
	}
}

// jsonSlotNames maps normalized (lowercased, separators stripped) key
// names to payload slots. "qty" and "ponumber" are accepted because the
// wire header and the registry's column use those spellings.
var jsonSlotNames = map[string]slot{
	"pcn":        slotPCN,
	"item":       slotItem,
	"mpn":        slotMPN,
	"partnumber": slotPartNumber,
	"quantity":   slotQuantity,
	"qty":        slotQuantity,
	"po":         slotPO,
	"ponumber":   slotPO,
	"location":   slotLocation,
	"pcbtype":    slotPCBType,
	"datecode":   slotDateCode,
	"msd":        slotMSD,
}

func normalizeKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, "_", "")
	k = strings.ReplaceAll(k, "-", "")
	k = strings.ReplaceAll(k, " ", "")
	return k
}

func decodeJSON(raw string) (BarcodePayload, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return BarcodePayload{}, false
	}

	// Sorted key walk keeps decode deterministic when aliases collide.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var p BarcodePayload
	for _, k := range keys {
		s, ok := jsonSlotNames[normalizeKey(k)]
		if !ok || p.get(s) != "" {
			continue
		}
		switch v := m[k].(type) {
		case string:
			p.set(s, strings.TrimSpace(v))
		case json.Number:
			p.set(s, v.String())
		}
	}
	return p, true
}

// DecodeBarcode interprets arbitrary scanner or camera input as a label
// payload. It is total: malformed input yields a best-effort partial
// payload, never an error. Parsing layers, first success wins:
//
//  1. JSON object with case-insensitive field-name keys.
//  2. Canonical pipe-delimited positional record (at least 5 non-empty
//     tokens); extra segments fall through to the heuristic classifier.
//  3. Comma, then semicolon, then whitespace splitting, with heuristic
//     classification of the resulting tokens.
//  4. Single unclassifiable token: 5 digits is a PCN, alphanumeric is a
//     part number, anything else an MPN.
func DecodeBarcode(raw string) BarcodePayload {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return BarcodePayload{}
	}

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		if p, ok := decodeJSON(trimmed); ok {
			return p
		}
	}

	if strings.Contains(trimmed, "|") {
		return decodePipes(trimmed)
	}

	for _, split := range []func(string) []string{
		func(s string) []string { return strings.Split(s, ",") },
		func(s string) []string { return strings.Split(s, ";") },
		strings.Fields,
	} {
		tokens := nonEmpty(split(trimmed))
		if len(tokens) >= 2 {
			var p BarcodePayload
			classifyTokens(&p, tokens, 0)
			return p
		}
	}

	return decodeSingleToken(trimmed)
}

func decodePipes(trimmed string) BarcodePayload {
	segments := strings.Split(trimmed, "|")
	if len(nonEmpty(segments)) < 5 {
		// Too sparse to trust positions; classify whatever is there.
		var p BarcodePayload
		classifyTokens(&p, nonEmpty(segments), 0)
		return p
	}

	var p BarcodePayload
	for i, seg := range segments {
		if i >= int(numSlots) {
			break
		}
		p.set(slot(i), strings.TrimSpace(seg))
	}
	if len(segments) > int(numSlots) {
		classifyTokens(&p, segments[numSlots:], int(numSlots))
	}
	return p
}

func decodeSingleToken(tok string) BarcodePayload {
	var p BarcodePayload
	switch {
	case rePCN.MatchString(tok):
		p.PCN = tok
	case reToken.MatchString(tok) && reAlnum.MatchString(tok):
		p.PartNumber = tok
	default:
		p.MPN = tok
	}
	return p
}

func nonEmpty(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if strings.TrimSpace(t) != "" {
			out = append(out, strings.TrimSpace(t))
		}
	}
	return out
}
