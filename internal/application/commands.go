package application

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// Fixed responses.
const (
	unknownCommandResponse = "Unknown command."
	aggregationFailure     = "Unable to fetch MSC information right now. Please try again later."
)

// Commands interprets operator command text and dispatches it to the typed
// handler for each command kind. Settings mutators touch only the settings
// store and scheduler; report commands aggregate a fresh status list first.
type Commands struct {
	settings           driven.SettingsStore
	status             *StatusService
	reporter           *Reporter
	news               *NewsService
	scheduler          *Scheduler
	repoFullName       string
	defaultSummaryTime string
	now                func() time.Time
}

// NewCommands creates a Commands dispatcher with all required dependencies.
func NewCommands(
	settings driven.SettingsStore,
	status *StatusService,
	reporter *Reporter,
	news *NewsService,
	scheduler *Scheduler,
	repoFullName string,
	defaultSummaryTime string,
) *Commands {
	return &Commands{
		settings:           settings,
		status:             status,
		reporter:           reporter,
		news:               news,
		scheduler:          scheduler,
		repoFullName:       repoFullName,
		defaultSummaryTime: defaultSummaryTime,
		now:                time.Now,
	}
}

// Execute interprets and runs one command, returning the markdown response
// to send to the room. Aggregation failures never escape: the room gets a
// generic failure notice instead.
func (c *Commands) Execute(ctx context.Context, roomID, text string) string {
	cmd, args := Interpret(text)
	if cmd == model.CmdUnknown {
		return unknownCommandResponse
	}

	var entries []model.StatusEntry
	if needsStatus(cmd) {
		var err error
		entries, err = c.status.Aggregate(ctx, roomID)
		if err != nil {
			slog.Error("aggregation failed for command", "room", roomID, "error", err)
			return aggregationFailure
		}
	}

	switch cmd {
	case model.CmdShowInProgress:
		return c.reporter.InProgressSection(entries)
	case model.CmdShowPending:
		return c.reporter.PendingSection(entries, "")
	case model.CmdShowFCP:
		return c.reporter.FCPSection(ctx, entries)
	case model.CmdShowAll:
		return c.reporter.Composite(ctx, entries)
	case model.CmdShowSummary:
		return c.renderSummary(ctx, roomID, entries)
	case model.CmdShowNews:
		return c.showNews(ctx, roomID, args, entries)
	case model.CmdShowTasks:
		return c.showTasks(args, entries)
	case model.CmdHelp:
		return c.help(roomID)
	case model.CmdSetSummaryContent:
		return c.setSummaryContent(roomID, args)
	case model.CmdEnableSummary:
		return c.enableSummary(roomID)
	case model.CmdDisableSummary:
		return c.disableSummary(roomID)
	case model.CmdSetSummaryTime:
		return c.setSummaryTime(roomID, args)
	case model.CmdShowSummaryTime:
		return c.showSummaryTime(roomID)
	case model.CmdShowPriority:
		return c.showPriority(roomID)
	case model.CmdSetPriority:
		return c.setPriority(roomID, args)
	case model.CmdUnknown:
		return unknownCommandResponse
	}

	return unknownCommandResponse
}

// Summary aggregates and renders the room's daily summary. Used by both the
// "show summary" command (via Execute) and the scheduler.
func (c *Commands) Summary(ctx context.Context, roomID string) (string, error) {
	entries, err := c.status.Aggregate(ctx, roomID)
	if err != nil {
		return "", err
	}
	return c.renderSummary(ctx, roomID, entries), nil
}

// needsStatus reports whether a command requires a freshly aggregated status
// list before dispatch.
func needsStatus(cmd model.Command) bool {
	switch cmd {
	case model.CmdShowInProgress, model.CmdShowPending, model.CmdShowFCP,
		model.CmdShowAll, model.CmdShowSummary, model.CmdShowNews, model.CmdShowTasks:
		return true
	}
	return false
}

// renderSummary renders the summary in the room's configured content mode
// and appends goal progress when priority MSCs are set.
func (c *Commands) renderSummary(ctx context.Context, roomID string, entries []model.StatusEntry) string {
	settings := c.settings.Get(roomID)

	var body string
	switch settings.Mode() {
	case model.SummaryInProgress:
		body = c.reporter.InProgressSection(entries)
	case model.SummaryPending:
		body = c.reporter.PendingSection(entries, "")
	case model.SummaryFCP:
		body = c.reporter.FCPSection(ctx, entries)
	default:
		body = c.reporter.Composite(ctx, entries)
	}

	if len(settings.PriorityMSCs) > 0 {
		body += c.reporter.GoalProgress(entries, settings.PriorityMSCs)
	}

	return body
}

// showNews resolves the requested time window and renders the digest.
func (c *Commands) showNews(ctx context.Context, roomID string, args []string, entries []model.StatusEntry) string {
	window, err := c.news.ResolveWindow(ctx, args)
	if err != nil {
		slog.Warn("news window parse failed", "room", roomID, "args", args, "error", err)
		return err.Error()
	}

	scoped := len(c.settings.Get(roomID).PriorityMSCs) > 0
	digest, err := c.news.Digest(ctx, window, entries, scoped)
	if err != nil {
		slog.Error("news digest failed", "room", roomID, "error", err)
		return aggregationFailure
	}
	return digest
}

// showTasks renders the outstanding work: in-progress MSCs for everyone plus
// pending FCPs, optionally filtered to one reviewer's login.
func (c *Commands) showTasks(args []string, entries []model.StatusEntry) string {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}
	return c.reporter.InProgressSection(entries) + c.reporter.PendingSection(entries, filter)
}

func (c *Commands) setSummaryContent(roomID string, args []string) string {
	if len(args) == 0 || !model.SummaryMode(args[0]).Valid() {
		return "Invalid or unknown summary content option.\n\nUsage: `set summary content [all, pending, fcp, in-progress]`"
	}

	mode := model.SummaryMode(args[0])
	c.settings.Update(roomID, func(s *model.RoomSettings) {
		s.SummaryContent = mode
	})
	return fmt.Sprintf("Summary content updated successfully to '%s'.", mode)
}

func (c *Commands) enableSummary(roomID string) string {
	enabled := true
	c.settings.Update(roomID, func(s *model.RoomSettings) {
		s.SummaryEnabled = &enabled
	})
	c.scheduler.Retag(roomID, c.effectiveSummaryTime(roomID))
	return "Daily summary enabled."
}

func (c *Commands) disableSummary(roomID string) string {
	enabled := false
	c.settings.Update(roomID, func(s *model.RoomSettings) {
		s.SummaryEnabled = &enabled
	})
	c.scheduler.Cancel(roomID)
	return "Daily summary disabled."
}

func (c *Commands) setSummaryTime(roomID string, args []string) string {
	if len(args) == 0 {
		return "Invalid or unknown summary time option.\n\nUsage: `set summary time 07:00` or `set summary time 4pm`"
	}

	normalized, err := ParseClock(args[0], c.now())
	if err != nil {
		slog.Warn("unable to parse summary time", "room", roomID, "input", args[0])
		return fmt.Sprintf("Unknown time parameter '%s'.", args[0])
	}

	c.settings.Update(roomID, func(s *model.RoomSettings) {
		s.SummaryTime = normalized
	})
	c.scheduler.Retag(roomID, normalized)

	return fmt.Sprintf("Summary time now set to %s.", normalized)
}

func (c *Commands) showSummaryTime(roomID string) string {
	response := fmt.Sprintf("The currently configured daily summary time for this room is %s UTC.", c.effectiveSummaryTime(roomID))
	if !c.settings.Get(roomID).SummariesEnabled() {
		response += " However, summaries in this room are currently disabled."
	}
	return response
}

func (c *Commands) showPriority(roomID string) string {
	priority := c.settings.Get(roomID).PriorityMSCs
	if len(priority) == 0 {
		return "No priority MSCs set."
	}

	links := make([]string, len(priority))
	for i, n := range priority {
		links[i] = fmt.Sprintf("[%d](https://github.com/%s/pull/%d)", n, c.repoFullName, n)
	}
	return fmt.Sprintf("Currently set priority MSCs: [%s]", strings.Join(links, ", "))
}

func (c *Commands) setPriority(roomID string, args []string) string {
	if len(args) == 0 {
		return "Unknown MSC numbers. Usage: set priority 123, 456, 555, 12"
	}

	if args[0] == "clear" {
		previous := c.settings.Get(roomID).PriorityMSCs
		c.settings.Delete(roomID, model.KeyPriorityMSCs)
		if len(previous) == 0 {
			return "Priority MSCs cleared. Was: None."
		}
		return fmt.Sprintf("Priority MSCs cleared. Was: %s.", formatNumbers(previous))
	}

	var numbers []int
	for _, arg := range args {
		// Tolerate comma-separated lists.
		cleaned := strings.ReplaceAll(arg, ",", "")
		n, err := strconv.Atoi(cleaned)
		if err != nil {
			slog.Warn("unable to parse priority MSC number", "room", roomID, "input", arg)
			return fmt.Sprintf("Unable to parse %s as an MSC number. Make sure it is a valid integer.", cleaned)
		}
		numbers = append(numbers, n)
	}

	c.settings.Update(roomID, func(s *model.RoomSettings) {
		s.PriorityMSCs = numbers
	})
	return fmt.Sprintf("Priority MSCs set: %s", formatNumbers(numbers))
}

// effectiveSummaryTime returns the room's custom summary time, or the
// process-wide default.
func (c *Commands) effectiveSummaryTime(roomID string) string {
	if t := c.settings.Get(roomID).SummaryTime; t != "" {
		return t
	}
	return c.defaultSummaryTime
}

// formatNumbers renders an int list as "[123, 456]".
func formatNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// help returns the command reference plus the room's current summary state.
func (c *Commands) help(roomID string) string {
	var b strings.Builder
	b.WriteString(`# Available commands

**MSCs**

Show MSCs that are still being finalized:

<pre><code>show in-progress
</code></pre>

Show MSCs which are pending a FCP. These need review from team members:

<pre><code>show pending
</code></pre>

Show MSCs that are currently in FCP:

<pre><code>show fcp
</code></pre>

Combined response of all of the above:

<pre><code>show all
</code></pre>

Show the summary once for this room, whether it is enabled daily or not:

<pre><code>show summary
</code></pre>

Show a news digest of MSC statuses since some time ago:

<pre><code>show news [from (time) to (time)] [since (time)]
</code></pre>

Valid ` + "`time`" + `s are ` + "`1 week ago`, `last friday`, `2 days ago`" + `, etc.

Or, as a helper tool for TWIM authors, to show what happened since the last TWIM post:

<pre><code>show news twim
</code></pre>

Show MSC tasks that must still be completed:

<pre><code>show tasks [github username]
</code></pre>

**Per-room Bot Options**

Set priority MSCs. If set, only information about these MSCs will be shown:

<pre><code>set priority 123, 456, 555, 12
</code></pre>

Show set priority MSCs for this room:

<pre><code>show priority
</code></pre>

Clear priority MSCs:

<pre><code>set priority clear
</code></pre>

Enable/disable daily summary:

<pre><code>set summary enable|disable
</code></pre>

Set daily summary time:

<pre><code>set summary time 08:00|8am|8:15pm|etc.
</code></pre>

Show the currently configured daily summary time:

<pre><code>summary time
</code></pre>

Set the content a daily summary will contain:

<pre><code>set summary content all|pending|fcp|in-progress
</code></pre>

all: All MSCs currently in-flight<br>
pending: MSCs that are currently being voted on for an FCP<br>
fcp: MSCs that are currently in FCP<br>
in-progress: MSCs that are currently in the discussion phase

**Other**

Show this help:

<pre><code>help
</code></pre>

`)

	if !c.settings.Get(roomID).SummariesEnabled() {
		b.WriteString("Summaries are currently disabled for this room.")
	} else {
		fmt.Fprintf(&b, "Summaries are currently shown every day at %s UTC.", c.effectiveSummaryTime(roomID))
	}

	return b.String()
}
