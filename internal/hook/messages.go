package hook

// Default follow-up texts. They are instructions for the agent, not for this
// program: the build, commit, and task-file workflow they describe runs in the
// agent's own environment. Projects override them in recur.yaml.
const (
	// DefaultContinueMessage drives the next autonomous iteration.
	DefaultContinueMessage = "Fully autonomous: do not ask for confirmation. If you have uncommitted changes: run cargo build -p pea-core and cargo test -p pea-core if Rust changed, then git add, git commit with a clear message, and git push. " +
		"Then continue with the next unchecked item in .tasks (see .tasks/README.md). " +
		"If all tasks in the current file are done, move to the next task file in order (00 → 01 → 07 → 02 & 03 → …)."

	// DefaultLimitMessage hands control back once the editor's ceiling is hit.
	DefaultLimitMessage = "Auto-continuation limit reached (Cursor allows 5 per conversation). Briefly summarize what was completed and what is next in .tasks, then stop."
)
