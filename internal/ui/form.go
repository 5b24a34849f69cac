package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/five82/kampfrichter/internal/competition"
)

// CompetitionInput holds the fields asked for when creating a competition.
type CompetitionInput struct {
	Name              string
	Date              string
	Place             string
	ResponsiblePerson string
	JudgesMeetingTime string
}

// Record converts the input into a record with empty collections.
func (in CompetitionInput) Record() competition.Record {
	return competition.Record{
		Name:              strings.TrimSpace(in.Name),
		Date:              strings.TrimSpace(in.Date),
		Place:             strings.TrimSpace(in.Place),
		ResponsiblePerson: strings.TrimSpace(in.ResponsiblePerson),
		JudgesMeetingTime: strings.TrimSpace(in.JudgesMeetingTime),
		ReplacementJudges: []string{},
		JudgingTables:     map[string]competition.JudgingTable{},
	}
}

// NewCompetitionForm returns the form for a new competition. Answers are
// written to in.
func NewCompetitionForm(in *CompetitionInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Wettkampfname").
				Value(&in.Name).
				Validate(validateName),
			huh.NewInput().
				Title("Datum").
				Description("JJJJ-MM-TT").
				Value(&in.Date).
				Validate(validateDate),
			huh.NewInput().
				Title("Ort").
				Value(&in.Place),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Verantwortliche Person").
				Value(&in.ResponsiblePerson),
			huh.NewInput().
				Title("Kampfrichterbesprechung").
				Description("HH:MM").
				Value(&in.JudgesMeetingTime).
				Validate(validateClock),
		),
	)
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("bitte einen Namen angeben")
	}
	return nil
}

func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("datum im Format JJJJ-MM-TT angeben")
	}
	return nil
}

func validateClock(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return errors.New("uhrzeit im Format HH:MM angeben")
	}
	return nil
}
