package model

// Operation is the closed set of document transformations the assistant
// knows how to run. Adding a member means touching the validator, the
// planner and the engine in the same change.
type Operation string

const (
	OpExtractPages Operation = "extract_pages"
	OpMergePDFs    Operation = "merge_pdfs"
	OpSplitPDF     Operation = "split_pdf"
	OpRotatePages  Operation = "rotate_pages"
	OpCompressPDF  Operation = "compress_pdf"
	OpAddWatermark Operation = "add_watermark"
	OpExtractText  Operation = "extract_text"
)

// Operations lists every supported operation in a stable order.
func Operations() []Operation {
	return []Operation{
		OpExtractPages,
		OpMergePDFs,
		OpSplitPDF,
		OpRotatePages,
		OpCompressPDF,
		OpAddWatermark,
		OpExtractText,
	}
}

// Known reports whether op is a member of the closed set.
func (op Operation) Known() bool {
	switch op {
	case OpExtractPages, OpMergePDFs, OpSplitPDF, OpRotatePages,
		OpCompressPDF, OpAddWatermark, OpExtractText:
		return true
	}
	return false
}

// Command is the transient output of the extractor: the operation the
// model asked for plus its raw parameter mapping. Never persisted.
type Command struct {
	Op     Operation
	Params map[string]any
}

type SelectionStrategy string

const (
	SelectNone     SelectionStrategy = "none"
	SelectSingle   SelectionStrategy = "single"
	SelectMultiple SelectionStrategy = "multiple"
)

type OutputKind string

const (
	OutputPDF         OutputKind = "pdf"
	OutputMultiplePDF OutputKind = "multiple_pdf"
	OutputText        OutputKind = "text"
)

type CostClass string

const (
	CostLow    CostClass = "low"
	CostMedium CostClass = "medium"
	CostHigh   CostClass = "high"
)

// ExecutionPlan carries the derived metadata that drives file selection
// and result handling for one validated command. Transient.
type ExecutionPlan struct {
	Op        Operation
	Params    map[string]any
	Selection SelectionStrategy
	Output    OutputKind
	Cost      CostClass
}

// RequiresFiles reports whether the plan needs at least one input file
// before dispatch may be attempted.
func (p ExecutionPlan) RequiresFiles() bool {
	return p.Selection == SelectSingle || p.Selection == SelectMultiple
}
