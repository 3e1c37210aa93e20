package errors

// Error codes for the BF pipeline: one short range per compile stage, so a
// code alone tells a caller which phase rejected the program before it
// ever reaches the tape.
//
// B01xx: lexical (scanner) errors
// B02xx: syntax (parser) errors
// B03xx: IR build errors — scope, variable and function resolution
// B04xx: backend errors — tape allocation and known-value violations
const (
	ErrorLexical = "B0100"
	ErrorSyntax  = "B0200"

	ErrorUndefinedVariable    = "B0300"
	ErrorUndefinedFunction    = "B0301"
	ErrorDuplicateDeclaration = "B0302"
	ErrorArrayLengthMismatch  = "B0303"

	ErrorFreeOfLiveCell   = "B0400"
	ErrorUnbalancedLoop   = "B0401"
	ErrorLocationConflict = "B0402"
)

// GetErrorDescription returns a human-readable description of an error
// code, used as a fallback help line when a diagnostic doesn't supply its
// own.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorLexical:
		return "the scanner could not tokenise this input"
	case ErrorSyntax:
		return "the token sequence does not match any clause grammar"
	case ErrorUndefinedVariable:
		return "no variable with this name is visible in the current scope"
	case ErrorUndefinedFunction:
		return "no function with this name and argument count is visible"
	case ErrorDuplicateDeclaration:
		return "a variable, function or struct with this name already exists in this scope"
	case ErrorArrayLengthMismatch:
		return "an array literal's element count does not match its declared length"
	case ErrorFreeOfLiveCell:
		return "a cell going out of scope could not be proven zero"
	case ErrorUnbalancedLoop:
		return "a loop's opening and closing cell reference do not match"
	case ErrorLocationConflict:
		return "a fixed location overlaps a cell already placed on the tape"
	default:
		return ""
	}
}

// GetErrorCategory names the compile stage a code belongs to, from its
// range prefix.
func GetErrorCategory(code string) string {
	switch {
	case code >= "B0100" && code < "B0200":
		return "lexer"
	case code >= "B0200" && code < "B0300":
		return "parser"
	case code >= "B0300" && code < "B0400":
		return "build"
	case code >= "B0400" && code < "B0500":
		return "backend"
	default:
		return ""
	}
}
