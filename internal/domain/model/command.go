package model

// Command identifies one bot command. The zero value means no command matched.
type Command int

// Bot commands.
const (
	CmdUnknown Command = iota
	CmdShowInProgress
	CmdShowPending
	CmdShowFCP
	CmdShowAll
	CmdShowSummary
	CmdShowNews
	CmdShowTasks
	CmdHelp
	CmdSetSummaryContent
	CmdEnableSummary
	CmdDisableSummary
	CmdSetSummaryTime
	CmdShowSummaryTime
	CmdShowPriority
	CmdSetPriority
)

// CommandPhrases maps a command to its literal phrase variants.
type CommandPhrases struct {
	Cmd      Command
	Variants []string
}

// CommandTable lists every command with its phrase variants. Matching walks
// the table in order, so earlier entries take precedence when phrases overlap
// (e.g. "show priority" must come before a hypothetical bare "show").
var CommandTable = []CommandPhrases{
	{CmdShowInProgress, []string{"show in-progress"}},
	{CmdShowPending, []string{"show pending"}},
	{CmdShowFCP, []string{"show fcp", "show in fcp"}},
	{CmdShowAll, []string{"show all", "show active"}},
	{CmdShowSummary, []string{"show summary", "summarize", "summarise"}},
	{CmdShowNews, []string{"show news"}},
	{CmdShowTasks, []string{"show tasks"}},
	{CmdHelp, []string{"help", "show help"}},
	{CmdSetSummaryContent, []string{"set summary content", "set summary mode"}},
	{CmdEnableSummary, []string{"set enable summary", "set summary enable", "set summary enabled"}},
	{CmdDisableSummary, []string{"set disable summary", "set summary disable", "set summary disabled"}},
	{CmdSetSummaryTime, []string{"set time summary", "set summary time", "set summary time to"}},
	{CmdShowSummaryTime, []string{"summary time", "get summary time"}},
	{CmdShowPriority, []string{"show priority", "priority", "priorities"}},
	{CmdSetPriority, []string{"set priority mscs", "set priority"}},
}
