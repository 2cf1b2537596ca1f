// Package form validates the birth details used to request a chart.
package form

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Field names a form input. Values match the JSON request keys.
type Field string

const (
	FieldDate    Field = "date"
	FieldTime    Field = "time"
	FieldCountry Field = "country"
	FieldCity    Field = "city"
)

// Fields lists the inputs in display order.
var Fields = []Field{FieldDate, FieldTime, FieldCountry, FieldCity}

// Code is a stable, machine-readable validation failure.
type Code string

const (
	CodeRequired   Code = "required"
	CodeFuture     Code = "future"
	CodeBefore1900 Code = "before_1900"
	CodeInvalid    Code = "invalid"
)

// Input is the raw birth form.
type Input struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Get returns the value of one field.
func (in Input) Get(f Field) string {
	switch f {
	case FieldDate:
		return in.Date
	case FieldTime:
		return in.Time
	case FieldCountry:
		return in.Country
	case FieldCity:
		return in.City
	}
	return ""
}

// Set returns a copy of in with one field replaced.
func (in Input) Set(f Field, v string) Input {
	switch f {
	case FieldDate:
		in.Date = v
	case FieldTime:
		in.Time = v
	case FieldCountry:
		in.Country = v
	case FieldCity:
		in.City = v
	}
	return in
}

// Error is a failure on one field.
type Error struct {
	Field Field
	Code  Code
}

func (e Error) Error() string {
	return string(e.Field) + ": " + DefaultMessages.Text(e.Code)
}

// Errors maps each invalid field to its failure. An empty map means valid.
type Errors map[Field]Error

// Fields returns the invalid fields in display order.
func (e Errors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	order := map[Field]int{}
	for i, f := range Fields {
		order[f] = i
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}

// Messages translates codes into display text.
type Messages map[Code]string

// DefaultMessages is the English table.
var DefaultMessages = Messages{
	CodeRequired:   "is required",
	CodeFuture:     "cannot be in the future",
	CodeBefore1900: "must be after 1900",
	CodeInvalid:    "has an invalid format",
}

// Text returns the message for c, falling back to the code itself.
func (m Messages) Text(c Code) string {
	if s, ok := m[c]; ok {
		return s
	}
	return string(c)
}

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// Validate checks every field independently and reports all failures.
// The result depends only on in and the calendar date of now.
func Validate(in Input, now time.Time) Errors {
	errs := Errors{}

	if strings.TrimSpace(in.Date) == "" {
		errs[FieldDate] = Error{FieldDate, CodeRequired}
	} else if d, err := time.Parse("2006-01-02", strings.TrimSpace(in.Date)); err != nil {
		errs[FieldDate] = Error{FieldDate, CodeInvalid}
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if d.After(today) {
			errs[FieldDate] = Error{FieldDate, CodeFuture}
		}
		// Evaluated second, so it wins if both ever apply.
		if d.Year() < 1900 {
			errs[FieldDate] = Error{FieldDate, CodeBefore1900}
		}
	}

	t := strings.TrimSpace(in.Time)
	switch {
	case t == "":
		errs[FieldTime] = Error{FieldTime, CodeRequired}
	case !validClock(t):
		errs[FieldTime] = Error{FieldTime, CodeInvalid}
	}

	if strings.TrimSpace(in.Country) == "" {
		errs[FieldCountry] = Error{FieldCountry, CodeRequired}
	}
	if strings.TrimSpace(in.City) == "" {
		errs[FieldCity] = Error{FieldCity, CodeRequired}
	}

	return errs
}

func validClock(s string) bool {
	if !timePattern.MatchString(s) {
		return false
	}
	layout := "15:04"
	if len(s) == 8 {
		layout = "15:04:05"
	}
	_, err := time.Parse(layout, s)
	return err == nil
}
