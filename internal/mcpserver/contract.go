package mcpserver

// OrgFormatContract describes the canonical plain-text outline format that
// LLM consumers should follow when creating or editing documents.
const OrgFormatContract = `# Ansuz Document Format Contract

Every document stored in Ansuz MUST follow this outline structure.

## Structure

` + "```" + `org
Optional preamble text before the first heading.

* TODO [#A] Top-level heading title [1/2]    :tag1:tag2:
SCHEDULED: <2025-01-20 Mon>
:PROPERTIES:
:ID:       some-id
:END:
:LOGBOOK:
CLOCK: [2025-01-19 Sun 09:00]--[2025-01-19 Sun 10:30] =>  1:30
:END:
Body text belonging to this heading.

** Subheading (one extra star per nesting level)
` + "```" + `

## Rules

1. **Headings** start at column 0 with one or more ` + "`" + `*` + "`" + ` characters
   followed by a space. Star count is the nesting level.
2. **Headline field order** is: todo keyword, COMMENT marker, priority
   ` + "`" + `[#A]` + "`" + `, title, progress cookie (` + "`" + `[1/2]` + "`" + ` or ` + "`" + `[50%]` + "`" + `), then tags.
   Tags are colon-delimited at the end of the line: ` + "`" + `:work:urgent:` + "`" + `.
3. **Todo keywords** default to TODO (unfinished) and DONE (finished).
4. **Scheduling** lines come immediately after the headline, at column 0:
   ` + "`" + `CLOSED: [...]` + "`" + `, ` + "`" + `SCHEDULED: <...>` + "`" + `, ` + "`" + `DEADLINE: <...>` + "`" + `, in that order
   on one line. Active timestamps use angle brackets, inactive use square
   brackets. CLOSED is always inactive; SCHEDULED and DEADLINE are active.
5. **Timestamps** are ` + "`" + `<2025-01-20 Mon>` + "`" + ` or ` + "`" + `<2025-01-20 Mon 15:04>` + "`" + ` with an
   optional repeater (` + "`" + `+1w` + "`" + `) and, on DEADLINE, a warning period (` + "`" + `-2d` + "`" + `).
   Weekday names are regenerated from the date; do not worry about them.
6. **Drawers** (` + "`" + `:PROPERTIES:` + "`" + `, ` + "`" + `:LOGBOOK:` + "`" + `) follow the scheduling line and
   end with ` + "`" + `:END:` + "`" + `. Property lines look like ` + "`" + `:KEY:       value` + "`" + `.
7. **File paths** end with ` + "`" + `.org` + "`" + ` and use forward slashes.
8. **Encoding** is UTF-8 with a trailing newline.
9. Prefer the ` + "`" + `edit_outline` + "`" + ` tool over rewriting whole documents: it
   applies structural operations (promote, demote, set_todo, set_scheduling,
   set_property, ...) without disturbing the rest of the file.

## Example

` + "```" + `org
Weekly planning file.

* TODO [#A] Ship the release [0/2]    :work:
DEADLINE: <2025-01-24 Fri>
** TODO Write changelog
** TODO Tag the build
* DONE Retro notes
CLOSED: [2025-01-17 Fri 16:30]
Went well overall.
` + "```" + `
`
