package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
	"github.com/alexanderramin/inbox/internal/service"
)

// FormatEnvelope renders an intake reply or a stored draft.
func FormatEnvelope(env *intelligence.Envelope, now time.Time) string {
	var b strings.Builder

	b.WriteString(EnvelopeStatusBadge(env.Status) + "  " + IntentLabel(env.IntentDetected) + "\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("CONFIDENCE"), RenderConfidence(env.ConfidenceScore, 10)))
	if env.DraftID != nil {
		b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("DRAFT     "), *env.DraftID))
	}
	if env.DraftStatus != nil {
		b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("STATUS    "), DraftStatusPill(*env.DraftStatus)))
		if *env.DraftStatus == domain.DraftPendingApproval && env.ExpiresAt != nil {
			b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("EXPIRES   "), ExpiresIn(*env.ExpiresAt, now)))
		}
	}
	if env.CreatedEntityID != nil {
		b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("ENTITY    "), *env.CreatedEntityID))
	}

	b.WriteString("\n" + Bold(domain.DraftTitle(env.Draft)) + "\n")
	b.WriteString(RenderFields(DraftFields(env.Draft)))

	if env.Reasoning != "" {
		b.WriteString("\n" + Dim(env.Reasoning) + "\n")
	}
	if len(env.Suggestions) > 0 {
		b.WriteString("\n" + Header("Suggestions") + "\n")
		for _, s := range env.Suggestions {
			b.WriteString("  • " + s + "\n")
		}
	}
	if flow := env.ClarificationFlow; flow != nil {
		b.WriteString("\n" + FormatClarification(flow, now))
	}

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatClarification renders an open session: the alternative, if still
// undecided, and the questions with any answers so far.
func FormatClarification(flow *intelligence.ClarificationFlow, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header("Clarification") + "\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("SESSION"), flow.SessionID))
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("BUDGET "), RenderQuestionBudget(flow.QuestionsAsked, flow.MaxQuestions)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("IDLE   "), "expires "+ExpiresIn(flow.ExpiresAt, now)))

	if alt := flow.SuggestedAlternative; alt != nil {
		b.WriteString("\n")
		switch {
		case flow.AlternativeAccepted == nil:
			b.WriteString(StylePurple.Render("This might be better as a "+strings.ToUpper(string(alt.Intent))) + "\n")
			if alt.Reason != "" {
				b.WriteString("  " + Dim(alt.Reason) + "\n")
			}
		case *flow.AlternativeAccepted:
			b.WriteString(Dim("Converted to "+string(alt.Intent)) + "\n")
		default:
			b.WriteString(Dim("Kept as original; "+string(alt.Intent)+" declined") + "\n")
		}
	}

	if len(flow.Questions) > 0 {
		b.WriteString("\n")
		for _, q := range flow.Questions {
			b.WriteString(FormatQuestion(q, flow.Answers[q.ID]) + "\n")
		}
	}
	return b.String()
}

// FormatQuestion renders one question line with its answer or hints.
func FormatQuestion(q domain.Question, answer string) string {
	marker := StyleYellow.Render("?")
	if answer != "" {
		marker = StyleGreen.Render("✔")
	}
	line := fmt.Sprintf("  %s %s %s", marker, StyleDim.Render("["+q.ID+"]"), q.Prompt)
	if q.Required {
		line += StyleRed.Render(" *")
	}

	var hints []string
	switch {
	case answer != "":
		hints = append(hints, StyleGreen.Render(answer))
	case len(q.Options) > 0:
		opts := make([]string, len(q.Options))
		for i, o := range q.Options {
			opts[i] = strconv.Itoa(i+1) + ") " + o
		}
		hints = append(hints, Dim(strings.Join(opts, "  ")))
	case q.Kind == domain.QuestionYesNo:
		hints = append(hints, Dim("yes/no"))
	case q.Kind == domain.QuestionDate:
		hints = append(hints, Dim("YYYY-MM-DD"))
	case q.Kind == domain.QuestionTime:
		hints = append(hints, Dim("HH:MM"))
	}
	if answer == "" && q.Default != nil {
		hints = append(hints, Dim("default "+*q.Default))
	}
	if len(hints) > 0 {
		line += "\n      " + strings.Join(hints, "  ")
	}
	return line
}

// DraftFields lists the populated fields of a draft for display.
func DraftFields(d domain.Draft) [][2]string {
	var f fieldList
	switch v := d.(type) {
	case *domain.TaskDraft:
		f.add("Area", LifeAreaBadge(v.LifeAreaCode))
		f.add("Quadrant", v.PriorityQuadrantCode)
		f.addInt("Effort", v.EffortPoints)
		f.addDate("Due", v.DueDate)
		f.addStr("Epic", v.EpicRef)
		f.addStr("Sprint", v.SprintRef)
		f.addRecurring(v.Recurring, v.Recurrence)
		f.add("Description", v.Description)
	case *domain.EpicDraft:
		f.add("Area", LifeAreaBadge(v.LifeAreaCode))
		f.addDate("Start", v.StartDate)
		f.addDate("End", v.EndDate)
		f.add("Color", v.Color)
		f.add("Description", v.Description)
		for i, t := range v.SuggestedTasks {
			f.add(fmt.Sprintf("Task %d", i+1), t.Title)
		}
	case *domain.ChallengeDraft:
		f.add("Area", LifeAreaBadge(v.LifeAreaCode))
		f.add("Metric", v.MetricType)
		if v.TargetValue != nil {
			target := strconv.FormatFloat(*v.TargetValue, 'f', -1, 64)
			if v.Unit != nil {
				target += " " + *v.Unit
			}
			f.add("Target", target)
		}
		f.add("Frequency", v.RecurrenceFrequency)
		f.addInt("Days", v.DurationDays)
		f.addInt("Grace", v.GraceDays)
		if v.ReminderTime != nil {
			f.add("Reminder", v.ReminderTime.String())
		}
		f.addStr("Why", v.WhyStatement)
		f.addStr("Reward", v.RewardDescription)
	case *domain.EventDraft:
		f.add("Area", LifeAreaBadge(v.LifeAreaCode))
		f.addDate("Date", v.Date)
		switch {
		case v.AllDay:
			f.add("Time", "all day")
		case v.StartTime != nil && v.EndTime != nil:
			f.add("Time", v.StartTime.String()+"–"+v.EndTime.String())
		case v.StartTime != nil:
			f.add("Time", v.StartTime.String())
		}
		f.addStr("Location", v.Location)
		f.add("Attendees", strings.Join(v.Attendees, ", "))
		f.addStr("Recurrence", v.Recurrence)
	case *domain.BillDraft:
		if v.Amount != nil {
			f.add("Amount", fmt.Sprintf("%.2f %s", *v.Amount, v.Currency))
		}
		f.addDate("Due", v.DueDate)
		f.addStr("Category", v.Category)
		f.addRecurring(v.Recurring, v.Recurrence)
		f.addStr("Notes", v.Notes)
	case *domain.NoteDraft:
		f.add("Area", LifeAreaBadge(v.LifeAreaCode))
		tags := append([]string(nil), v.Tags...)
		sort.Strings(tags)
		f.add("Tags", strings.Join(tags, ", "))
		f.add("Content", v.Content)
		for i, q := range v.ClarifyingQuestions {
			f.add(fmt.Sprintf("Open Q%d", i+1), q)
		}
	}
	return f
}

type fieldList [][2]string

func (f *fieldList) add(label, value string) {
	if value != "" {
		*f = append(*f, [2]string{label, value})
	}
}

func (f *fieldList) addStr(label string, v *string) {
	if v != nil {
		f.add(label, *v)
	}
}

func (f *fieldList) addInt(label string, v int) {
	if v != 0 {
		f.add(label, strconv.Itoa(v))
	}
}

func (f *fieldList) addDate(label string, d *domain.Date) {
	if d != nil {
		f.add(label, d.String())
	}
}

func (f *fieldList) addRecurring(recurring bool, rule *string) {
	if !recurring {
		return
	}
	if rule != nil {
		f.add("Repeats", *rule)
		return
	}
	f.add("Repeats", "yes")
}

// FormatPendingList renders the approval queue.
func FormatPendingList(envs []*intelligence.Envelope, now time.Time) string {
	if len(envs) == 0 {
		return Dim("No drafts awaiting approval.")
	}
	rows := make([][]string, 0, len(envs))
	for _, env := range envs {
		id, expires := "", ""
		if env.DraftID != nil {
			id = *env.DraftID
		}
		if env.ExpiresAt != nil {
			expires = ExpiresIn(*env.ExpiresAt, now)
		}
		rows = append(rows, []string{
			TruncID(id),
			IntentLabel(env.IntentDetected),
			domain.DraftTitle(env.Draft),
			fmt.Sprintf("%.0f%%", env.ConfidenceScore*100),
			expires,
		})
	}
	return Header(fmt.Sprintf("Pending drafts (%d)", len(envs))) + "\n" +
		RenderTable([]string{"ID", "TYPE", "TITLE", "CONF", "EXPIRES"}, rows)
}

// FormatDecision renders the outcome of approve, modify or reject.
func FormatDecision(res *service.DecisionResult) string {
	var b strings.Builder
	switch res.Status {
	case domain.DraftApproved:
		b.WriteString(StyleGreen.Render("Draft approved.") + "\n")
	case domain.DraftModified:
		b.WriteString(StyleBlue.Render("Draft modified and saved.") + "\n")
	case domain.DraftRejected:
		b.WriteString(Dim("Draft rejected. Nothing was created.") + "\n")
	default:
		b.WriteString(DraftStatusPill(res.Status) + "\n")
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("DRAFT "), res.DraftID))
	if res.CreatedEntityID != nil {
		b.WriteString(fmt.Sprintf("  %s  %s %s\n", StyleDim.Render("ENTITY"), IntentLabel(res.EntityType), *res.CreatedEntityID))
	}
	return b.String()
}

// FormatGC renders a maintenance summary.
func FormatGC(res *service.GCResult) string {
	return fmt.Sprintf("Expired %s drafts, purged %s sessions.\n",
		Bold(strconv.FormatInt(res.ExpiredDrafts, 10)),
		Bold(strconv.FormatInt(res.PurgedSessions, 10)))
}
