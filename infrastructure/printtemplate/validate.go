package printtemplate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"odinpos/infrastructure/apperr"
)

// Issue codes reported by Validate.
const (
	IssueEmptyTemplate     = "empty_template"
	IssueMissingItems      = "missing_items"
	IssueMissingTotals     = "missing_totals"
	IssueDuplicateOrder    = "duplicate_order"
	IssueDuplicateBlockID  = "duplicate_block_id"
	IssueUnknownBlockKind  = "unknown_block_kind"
	IssueInvalidBlockStyle = "invalid_block_style"
	IssueInvalidPaperWidth = "invalid_paper_width"
	IssueInvalidKind       = "invalid_template_kind"
	IssueKindChanged       = "kind_changed"

	IssueRequiredHidden = "required_hidden"
	IssueDuplicateKind  = "duplicate_kind"
)

type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	BlockID string `json:"blockId,omitempty"`
}

type ValidationResult struct {
	IsValid  bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

var blockValidator = validator.New()

// Validate checks the structural rules a template must satisfy before it
// is persisted. Errors block saving; warnings are informational.
func Validate(t Template) ValidationResult {
	res := ValidationResult{Errors: []Issue{}, Warnings: []Issue{}}
	addErr := func(code, blockID, format string, args ...any) {
		res.Errors = append(res.Errors, Issue{Code: code, Message: fmt.Sprintf(format, args...), BlockID: blockID})
	}
	addWarn := func(code, blockID, format string, args ...any) {
		res.Warnings = append(res.Warnings, Issue{Code: code, Message: fmt.Sprintf(format, args...), BlockID: blockID})
	}

	if !t.Kind.Valid() {
		addErr(IssueInvalidKind, "", "unknown template kind %q", t.Kind)
	}
	if !t.PaperWidth.Valid() {
		addErr(IssueInvalidPaperWidth, "", "paper width %dmm is not supported", t.PaperWidth)
	}

	if len(t.Blocks) == 0 {
		addErr(IssueEmptyTemplate, "", "template has no blocks")
		res.IsValid = false
		return res
	}

	kinds := make(map[BlockKind]int, len(t.Blocks))
	orders := make(map[int]string, len(t.Blocks))
	ids := make(map[string]struct{}, len(t.Blocks))
	for _, b := range t.Blocks {
		if _, dup := ids[b.ID]; dup {
			addErr(IssueDuplicateBlockID, b.ID, "block id %q is used more than once", b.ID)
		}
		ids[b.ID] = struct{}{}

		if prev, dup := orders[b.Order]; dup {
			addErr(IssueDuplicateOrder, b.ID, "blocks %q and %q share order %d", prev, b.ID, b.Order)
		} else {
			orders[b.Order] = b.ID
		}

		if !b.Kind.Valid() {
			addErr(IssueUnknownBlockKind, b.ID, "unknown block kind %q", b.Kind)
			continue
		}
		kinds[b.Kind]++

		if err := blockValidator.Struct(b.Style); err != nil {
			addErr(IssueInvalidBlockStyle, b.ID, "invalid style on %s block: %s", b.Kind, fieldList(err))
		}
		if err := blockValidator.Struct(b.Content); err != nil {
			addErr(IssueInvalidBlockStyle, b.ID, "invalid content on %s block: %s", b.Kind, fieldList(err))
		}

		if b.Required && !b.Visible {
			addWarn(IssueRequiredHidden, b.ID, "required %s block is hidden", b.Kind)
		}
	}

	if kinds[BlockItems] == 0 {
		addErr(IssueMissingItems, "", "template needs an items block")
	}
	if kinds[BlockTotals] == 0 {
		addErr(IssueMissingTotals, "", "template needs a totals block")
	}

	for _, kind := range AllBlockKinds {
		if kind.SingleUse() && kinds[kind] > 1 {
			addWarn(IssueDuplicateKind, "", "template has %d %s blocks", kinds[kind], kind)
		}
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

func fieldList(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	out := ""
	for i, fe := range errs {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return out
}

// CheckStyle validates a single block style, for editors that change one
// block at a time.
func CheckStyle(s BlockStyle) error {
	if err := blockValidator.Struct(s); err != nil {
		return apperr.Newf(apperr.CodeValidation, "estilo no válido: %s", fieldList(err)).
			WithDetails([]Issue{{Code: IssueInvalidBlockStyle, Message: fieldList(err)}})
	}
	return nil
}
