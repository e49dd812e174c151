package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Draft is a typed, unconfirmed representation of an entity. The set of
// implementations is closed: TaskDraft, EpicDraft, ChallengeDraft,
// EventDraft, BillDraft and NoteDraft.
type Draft interface {
	Intent() Intent
	isDraft()
}

type TaskDraft struct {
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	LifeAreaCode         string  `json:"lifeAreaCode"`
	PriorityQuadrantCode string  `json:"priorityQuadrantCode"`
	EffortPoints         int     `json:"effortPoints"`
	EpicRef              *string `json:"epicRef,omitempty"`
	SprintRef            *string `json:"sprintRef,omitempty"`
	DueDate              *Date   `json:"dueDate,omitempty"`
	Recurring            bool    `json:"recurring"`
	Recurrence           *string `json:"recurrence,omitempty"`
}

type EpicDraft struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	LifeAreaCode   string      `json:"lifeAreaCode"`
	SuggestedTasks []TaskDraft `json:"suggestedTasks"`
	Color          string      `json:"color"`
	Icon           *string     `json:"icon,omitempty"`
	StartDate      *Date       `json:"startDate,omitempty"`
	EndDate        *Date       `json:"endDate,omitempty"`
}

type ChallengeDraft struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	LifeAreaCode        string   `json:"lifeAreaCode"`
	MetricType          string   `json:"metricType"`
	TargetValue         *float64 `json:"targetValue,omitempty"`
	Unit                *string  `json:"unit,omitempty"`
	DurationDays        int      `json:"durationDays"`
	RecurrenceFrequency string   `json:"recurrenceFrequency"`
	WhyStatement        *string  `json:"whyStatement,omitempty"`
	RewardDescription   *string  `json:"rewardDescription,omitempty"`
	GraceDays           int      `json:"graceDays"`
	ReminderTime        *Clock   `json:"reminderTime,omitempty"`
}

type EventDraft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	LifeAreaCode string   `json:"lifeAreaCode"`
	Date         *Date    `json:"date,omitempty"`
	StartTime    *Clock   `json:"startTime,omitempty"`
	EndTime      *Clock   `json:"endTime,omitempty"`
	Location     *string  `json:"location,omitempty"`
	AllDay       bool     `json:"allDay"`
	Recurrence   *string  `json:"recurrence,omitempty"`
	Attendees    []string `json:"attendees"`
}

// BillDraft always carries the finance life area.
type BillDraft struct {
	VendorName   string   `json:"vendorName"`
	Amount       *float64 `json:"amount,omitempty"`
	Currency     string   `json:"currency"`
	DueDate      *Date    `json:"dueDate,omitempty"`
	Category     *string  `json:"category,omitempty"`
	LifeAreaCode string   `json:"lifeAreaCode"`
	Recurring    bool     `json:"recurring"`
	Recurrence   *string  `json:"recurrence,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

type NoteDraft struct {
	Title               string   `json:"title"`
	Content             string   `json:"content"`
	LifeAreaCode        string   `json:"lifeAreaCode"`
	Tags                []string `json:"tags"`
	ClarifyingQuestions []string `json:"clarifyingQuestions"`
}

func (*TaskDraft) Intent() Intent      { return IntentTask }
func (*EpicDraft) Intent() Intent      { return IntentEpic }
func (*ChallengeDraft) Intent() Intent { return IntentChallenge }
func (*EventDraft) Intent() Intent     { return IntentEvent }
func (*BillDraft) Intent() Intent      { return IntentBill }
func (*NoteDraft) Intent() Intent      { return IntentNote }

func (*TaskDraft) isDraft()      {}
func (*EpicDraft) isDraft()      {}
func (*ChallengeDraft) isDraft() {}
func (*EventDraft) isDraft()     {}
func (*BillDraft) isDraft()      {}
func (*NoteDraft) isDraft()      {}

// DraftTitle returns the human label of any draft variant.
func DraftTitle(d Draft) string {
	switch v := d.(type) {
	case *TaskDraft:
		return v.Title
	case *EpicDraft:
		return v.Title
	case *ChallengeDraft:
		return v.Name
	case *EventDraft:
		return v.Title
	case *BillDraft:
		return v.VendorName
	case *NoteDraft:
		return v.Title
	default:
		return ""
	}
}

// EncodeDraft serializes a draft for storage. The variant tag is stored
// separately by the caller.
func EncodeDraft(d Draft) (string, error) {
	if d == nil {
		return "", fmt.Errorf("encoding draft: nil draft")
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encoding %s draft: %w", d.Intent(), err)
	}
	return string(data), nil
}

// DecodeDraft restores a stored draft of the given variant.
func DecodeDraft(intent Intent, data string) (Draft, error) {
	var d Draft
	switch intent {
	case IntentTask:
		d = &TaskDraft{}
	case IntentEpic:
		d = &EpicDraft{}
	case IntentChallenge:
		d = &ChallengeDraft{}
	case IntentEvent:
		d = &EventDraft{}
	case IntentBill:
		d = &BillDraft{}
	case IntentNote:
		d = &NoteDraft{}
	default:
		return nil, fmt.Errorf("decoding draft: unknown intent %q", intent)
	}
	if err := json.Unmarshal([]byte(data), d); err != nil {
		return nil, fmt.Errorf("decoding %s draft: %w", intent, err)
	}
	return d, nil
}

// PendingDraft is a persisted draft awaiting an approve/modify/reject
// decision. Rejected drafts are kept for audit.
type PendingDraft struct {
	ID              string
	UserID          string
	Intent          Intent
	Draft           Draft
	Confidence      float64
	Reasoning       string
	Suggestions     []string
	InputText       string
	VoiceTranscript *string
	AttachmentCount int
	Status          DraftStatus
	CreatedEntityID *string
	CreatedAt       time.Time
	ExpiresAt       time.Time
	DecidedAt       *time.Time
}

// IsExpired reports whether now is at or past the expiration horizon.
func (p *PendingDraft) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
