package domain

import "strconv"

type ValueKind int

const (
	// ValueMissing is the zero value: nothing was loaded for this slot.
	ValueMissing ValueKind = iota
	// ValueNumber is a numeric observation usable in aggregation.
	ValueNumber
	// ValueText is a raw string that failed numeric coercion. It is kept
	// for display but excluded from arithmetic.
	ValueText
)

// Value is the tagged outcome of loading one metric cell, so downstream
// consumers can distinguish "zero" from "absent" from "unparseable".
type Value struct {
	Kind ValueKind
	Num  float64
	Raw  string
}

func Number(f float64) Value {
	return Value{Kind: ValueNumber, Num: f}
}

func Text(raw string) Value {
	return Value{Kind: ValueText, Raw: raw}
}

func Missing() Value {
	return Value{Kind: ValueMissing}
}

// Coerce parses raw as a number, falling back to a display-only text value.
func Coerce(raw string) Value {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Number(f)
	}
	return Text(raw)
}

func (v Value) IsNumber() bool {
	return v.Kind == ValueNumber
}

func (v Value) IsMissing() bool {
	return v.Kind == ValueMissing
}

// Float returns the numeric value. Callers check IsNumber first; the zero
// return for non-number kinds must never feed arithmetic.
func (v Value) Float() float64 {
	return v.Num
}

// String returns the raw form written to machine-readable exports.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueText:
		return v.Raw
	default:
		return ""
	}
}

// MetricRecord is one fact contributed by one platform.
type MetricRecord struct {
	Source string
	Metric string
	Value  Value
}

type ledgerKey struct {
	source string
	metric string
}

// Ledger is the unified collection of metric records for one reporting run.
// (source, metric) pairs are unique; putting a duplicate overwrites the
// existing record in place, which keeps re-merges idempotent.
type Ledger struct {
	records []MetricRecord
	index   map[ledgerKey]int
}

func NewLedger() *Ledger {
	return &Ledger{index: make(map[ledgerKey]int)}
}

func (l *Ledger) Put(rec MetricRecord) {
	key := ledgerKey{source: rec.Source, metric: rec.Metric}
	if i, ok := l.index[key]; ok {
		l.records[i] = rec
		return
	}
	l.index[key] = len(l.records)
	l.records = append(l.records, rec)
}

// Get looks up one metric; a missing pair yields a ValueMissing outcome.
func (l *Ledger) Get(source, metric string) Value {
	if i, ok := l.index[ledgerKey{source: source, metric: metric}]; ok {
		return l.records[i].Value
	}
	return Missing()
}

// Records returns the ledger rows in insertion order. Callers must treat the
// slice as read-only; only the merger mutates a ledger.
func (l *Ledger) Records() []MetricRecord {
	return l.records
}

func (l *Ledger) Len() int {
	return len(l.records)
}
