// Package sqlguard turns raw, possibly noisy LLM output into either a clean
// executable SQL string or a definitive rejection.
package sqlguard

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

var sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "BlockComment", Pattern: `/\*(?s:.*?)\*/`},
	{Name: "LineComment", Pattern: `--[^\n]*`},
	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "QuotedIdent", Pattern: `"(?:""|[^"])*"`},
	{Name: "BacktickIdent", Pattern: "`[^`]*`"},
	{Name: "Param", Pattern: `\$\d+|\?`},
	{Name: "Number", Pattern: `\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_$]*`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "Operator", Pattern: `[-+*/<>=~!@#%^&|.,:()\[\]{}]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	symbols         = sqlLexer.Symbols()
	tokWhitespace   = symbols["Whitespace"]
	tokLineComment  = symbols["LineComment"]
	tokBlockComment = symbols["BlockComment"]
	tokSemicolon    = symbols["Semicolon"]
)

// coreKeywords must appear in every non-comment statement for the shallow
// syntax check to pass. Substring matching is intentional: the check rejects
// prose and junk, it does not attempt grammar validation across dialects.
var coreKeywords = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER"}

// prefixes an LLM commonly glues onto its answer, stripped case-insensitively.
var responsePrefixes = []string{
	"SQL:",
	"Query:",
	"Here is the SQL:",
	"The SQL query is:",
	"SQL query:",
}

// Statement is a single lexed SQL statement.
type Statement struct {
	Text   string
	Tokens []lexer.Token
}

// FirstKeyword returns the uppercased first token that is neither whitespace
// nor a comment, or "" when the statement has no such token.
func (s Statement) FirstKeyword() string {
	for _, tok := range s.Tokens {
		if isTrivia(tok) {
			continue
		}
		return strings.ToUpper(strings.TrimSpace(tok.Value))
	}
	return ""
}

// IsCommentOnly reports whether the statement consists purely of comments
// and whitespace.
func (s Statement) IsCommentOnly() bool {
	sawComment := false
	for _, tok := range s.Tokens {
		switch tok.Type {
		case tokWhitespace:
		case tokLineComment, tokBlockComment:
			sawComment = true
		default:
			return false
		}
	}
	return sawComment
}

func isTrivia(tok lexer.Token) bool {
	return tok.Type == tokWhitespace || tok.Type == tokLineComment || tok.Type == tokBlockComment
}

// ValidationResult carries every validation outcome as data; invalid SQL is
// an expected result, never an error.
type ValidationResult struct {
	CleanedSQL           string `json:"cleaned_sql"`
	IsSyntacticallyValid bool   `json:"is_syntactically_valid"`
	IsSelectOnly         bool   `json:"is_select_only"`
	PassedPolicy         bool   `json:"passed_policy"`
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Clean strips markdown fences and common response prefixes from raw LLM
// output. Empty or whitespace-only input yields "".
func (v *Validator) Clean(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ""
	}

	if strings.HasPrefix(cleaned, "```sql") {
		cleaned = cleaned[6:]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[3:]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-3]
	}

	for _, prefix := range responsePrefixes {
		if strings.HasPrefix(strings.ToLower(cleaned), strings.ToLower(prefix)) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
		}
	}

	return strings.TrimSpace(cleaned)
}

// Statements lexes sql and splits it on top-level semicolons. Lexer failure
// is evidence of invalidity, not a fault: it yields an empty slice.
func (v *Validator) Statements(sql string) []Statement {
	if strings.TrimSpace(sql) == "" {
		return nil
	}

	lx, err := sqlLexer.Lex("", strings.NewReader(sql))
	if err != nil {
		return nil
	}
	tokens, err := lexer.ConsumeAll(lx)
	if err != nil {
		return nil
	}

	var stmts []Statement
	var current []lexer.Token
	start := 0

	flush := func(end int) {
		for _, tok := range current {
			if tok.Type != tokWhitespace {
				stmts = append(stmts, Statement{
					Text:   strings.TrimSpace(sql[start:end]),
					Tokens: current,
				})
				break
			}
		}
	}

	for _, tok := range tokens {
		if tok.EOF() {
			break
		}
		if tok.Type == tokSemicolon {
			flush(tok.Pos.Offset)
			current = nil
			start = tok.Pos.Offset + len(tok.Value)
			continue
		}
		current = append(current, tok)
	}
	flush(len(sql))

	return stmts
}

// IsSelectOnly reports whether every statement's first meaningful token
// starts with SELECT. Statements without a meaningful token are skipped, and
// an empty statement list passes; emptiness is rejected elsewhere.
func (v *Validator) IsSelectOnly(sql string) bool {
	for _, stmt := range v.Statements(sql) {
		first := stmt.FirstKeyword()
		if first == "" {
			continue
		}
		if !strings.HasPrefix(first, "SELECT") {
			return false
		}
	}
	return true
}

// IsSyntacticallyValid is a shallow structural check: the input must lex
// into at least one statement, and every non-comment statement must mention
// a core SQL keyword.
func (v *Validator) IsSyntacticallyValid(sql string) bool {
	if strings.TrimSpace(sql) == "" {
		return false
	}

	stmts := v.Statements(sql)
	if len(stmts) == 0 {
		return false
	}

	for _, stmt := range stmts {
		if stmt.IsCommentOnly() {
			continue
		}
		upper := strings.ToUpper(stmt.Text)
		found := false
		for _, kw := range coreKeywords {
			if strings.Contains(upper, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Validate runs the full pipeline and reports every outcome.
func (v *Validator) Validate(raw string, readonly bool) ValidationResult {
	res := ValidationResult{CleanedSQL: v.Clean(raw)}
	if res.CleanedSQL == "" {
		return res
	}

	res.IsSyntacticallyValid = v.IsSyntacticallyValid(res.CleanedSQL)
	res.IsSelectOnly = v.IsSelectOnly(res.CleanedSQL)
	res.PassedPolicy = res.IsSyntacticallyValid && (!readonly || res.IsSelectOnly)
	return res
}

// ValidateAndClean returns the cleaned SQL when it passes validation and ""
// otherwise. Callers must not treat "" as a valid zero-length query.
func (v *Validator) ValidateAndClean(raw string, readonly bool) string {
	res := v.Validate(raw, readonly)
	if !res.PassedPolicy {
		return ""
	}
	return res.CleanedSQL
}
