package command

import "pdf-assistant/internal/domain/model"

// Plan derives execution metadata for a validated command. Total over
// the closed operation set; the defaults (single/pdf/low) only matter
// if the set ever grows without this switch growing with it.
func Plan(cmd model.Command) model.ExecutionPlan {
	p := model.ExecutionPlan{
		Op:        cmd.Op,
		Params:    cmd.Params,
		Selection: model.SelectSingle,
		Output:    model.OutputPDF,
		Cost:      model.CostLow,
	}

	switch cmd.Op {
	case model.OpMergePDFs:
		p.Selection = model.SelectMultiple
		p.Cost = model.CostMedium
	case model.OpSplitPDF:
		p.Output = model.OutputMultiplePDF
		p.Cost = model.CostMedium
	case model.OpCompressPDF:
		p.Cost = model.CostHigh
	case model.OpExtractText:
		p.Output = model.OutputText
	case model.OpExtractPages, model.OpRotatePages, model.OpAddWatermark:
	}
	return p
}
