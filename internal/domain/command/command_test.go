//go:build !integration

package command

import (
	"errors"
	"testing"

	"pdf-assistant/internal/domain"
	"pdf-assistant/internal/domain/model"
)

func TestExtract(t *testing.T) {
	t.Run("should extract a well-formed command", func(t *testing.T) {
		raw := "Sure, extracting those pages now.\n" +
			"<method_call_start><method_name>extract_pages</method_name>" +
			`<parameters>{"pages": [1, 3, 5]}</parameters><method_call_end>`

		cmd, err := Extract(raw)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if cmd.Op != model.OpExtractPages {
			t.Errorf("expected op extract_pages, but got %q", cmd.Op)
		}
		pages, ok := cmd.Params["pages"].([]any)
		if !ok || len(pages) != 3 {
			t.Fatalf("expected 3 pages, but got %v", cmd.Params["pages"])
		}
	})

	t.Run("should extract across newlines inside the blocks", func(t *testing.T) {
		raw := "<method_call_start><method_name>\nmerge_pdfs\n</method_name>" +
			"<parameters>\n{\n  \"output_name\": \"combined.pdf\"\n}\n</parameters><method_call_end>"

		cmd, err := Extract(raw)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if cmd.Op != model.OpMergePDFs {
			t.Errorf("expected op merge_pdfs, but got %q", cmd.Op)
		}
		if cmd.Params["output_name"] != "combined.pdf" {
			t.Errorf("expected output_name to survive, but got %v", cmd.Params["output_name"])
		}
	})

	t.Run("should fail with ExtractionError when markers are absent", func(t *testing.T) {
		_, err := Extract("I can help you merge PDFs. Which files should I combine?")
		var exErr *domain.ExtractionError
		if !errors.As(err, &exErr) {
			t.Fatalf("expected ExtractionError, but got %T", err)
		}
	})

	t.Run("should fail with ExtractionError when parameters block is missing", func(t *testing.T) {
		_, err := Extract("<method_name>compress_pdf</method_name> and nothing else")
		var exErr *domain.ExtractionError
		if !errors.As(err, &exErr) {
			t.Fatalf("expected ExtractionError, but got %T", err)
		}
	})

	t.Run("should repair single-quoted parameters before parsing", func(t *testing.T) {
		raw := "<method_name>add_watermark</method_name>" +
			"<parameters>{'watermark_text': 'CONFIDENTIAL'}</parameters>"

		cmd, err := Extract(raw)
		if err != nil {
			t.Fatalf("expected repaired parse to succeed, but got: %v", err)
		}
		if cmd.Params["watermark_text"] != "CONFIDENTIAL" {
			t.Errorf("expected watermark_text CONFIDENTIAL, but got %v", cmd.Params["watermark_text"])
		}
	})

	t.Run("should fail with MalformedParametersError on a trailing comma", func(t *testing.T) {
		raw := "<method_name>extract_pages</method_name>" +
			`<parameters>{"pages": [1, 2,]}</parameters>`

		_, err := Extract(raw)
		var mpErr *domain.MalformedParametersError
		if !errors.As(err, &mpErr) {
			t.Fatalf("expected MalformedParametersError, but got %T", err)
		}
		if mpErr.Raw == "" {
			t.Error("expected raw parameter text to be carried on the error")
		}
	})

	t.Run("should not validate the operation name", func(t *testing.T) {
		raw := "<method_name>resize_images</method_name><parameters>{}</parameters>"
		cmd, err := Extract(raw)
		if err != nil {
			t.Fatalf("extraction stage must not reject unknown operations, got: %v", err)
		}
		if cmd.Op.Known() {
			t.Errorf("expected unknown op, but %q is known", cmd.Op)
		}
	})
}

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"strict json untouched", `{"pages": [1, 2]}`, `{"pages": [1, 2]}`},
		{"line comment stripped", "{\"pages\": [1] // first page\n}", "{\"pages\": [1] \n}"},
		{"block comment stripped", `{/* default */ "pages": [1]}`, `{ "pages": [1]}`},
		{"single-quoted key requoted", `{'pages': [1]}`, `{"pages": [1]}`},
		{"single-quoted value requoted", `{"name": 'out.pdf'}`, `{"name": "out.pdf"}`},
		{"trailing comma preserved", `{"pages": [1, 2,]}`, `{"pages": [1, 2,]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RepairJSON(tc.in); got != tc.want {
				t.Errorf("RepairJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}

	t.Run("should be idempotent", func(t *testing.T) {
		in := "{'pages': [1], /* c */ 'name': 'x' // y\n}"
		once := RepairJSON(in)
		if twice := RepairJSON(once); twice != once {
			t.Errorf("second pass changed output: %q -> %q", once, twice)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("should reject unknown operations before any schema check", func(t *testing.T) {
		err := Validate(model.Command{Op: "resize_images", Params: map[string]any{}})
		var uoErr *domain.UnsupportedOperationError
		if !errors.As(err, &uoErr) {
			t.Fatalf("expected UnsupportedOperationError, but got %T", err)
		}
	})

	t.Run("should require a non-empty pages list for extract_pages", func(t *testing.T) {
		for _, params := range []map[string]any{
			{},
			{"pages": []any{}},
			{"pages": "1,2"},
			{"pages": []any{float64(0)}},
			{"pages": []any{float64(-2)}},
			{"pages": []any{1.5}},
		} {
			err := Validate(model.Command{Op: model.OpExtractPages, Params: params})
			var valErr *domain.ValidationError
			if !errors.As(err, &valErr) {
				t.Errorf("params %v: expected ValidationError, but got %T", params, err)
			}
		}
	})

	t.Run("should accept float-encoded integer pages", func(t *testing.T) {
		err := Validate(model.Command{Op: model.OpExtractPages, Params: map[string]any{
			"pages": []any{float64(1), float64(2)},
		}})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
	})

	t.Run("should restrict rotation to quarter turns", func(t *testing.T) {
		for rot, wantErr := range map[float64]bool{90: false, 180: false, 270: false, 0: true, 45: true, 360: true, -90: true} {
			err := Validate(model.Command{Op: model.OpRotatePages, Params: map[string]any{
				"pages":    []any{float64(1)},
				"rotation": rot,
			}})
			if wantErr && err == nil {
				t.Errorf("rotation %v: expected error, but got nil", rot)
			}
			if !wantErr && err != nil {
				t.Errorf("rotation %v: expected no error, but got: %v", rot, err)
			}
		}
	})

	t.Run("should require watermark text", func(t *testing.T) {
		err := Validate(model.Command{Op: model.OpAddWatermark, Params: map[string]any{"watermark_text": "   "}})
		var valErr *domain.ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, but got %T", err)
		}
	})

	t.Run("should accept operations with no required fields", func(t *testing.T) {
		for _, op := range []model.Operation{model.OpMergePDFs, model.OpSplitPDF, model.OpCompressPDF, model.OpExtractText} {
			if err := Validate(model.Command{Op: op, Params: map[string]any{}}); err != nil {
				t.Errorf("%s: expected no error, but got: %v", op, err)
			}
		}
	})
}

func TestPlan(t *testing.T) {
	cases := []struct {
		op        model.Operation
		selection model.SelectionStrategy
		output    model.OutputKind
		cost      model.CostClass
	}{
		{model.OpExtractPages, model.SelectSingle, model.OutputPDF, model.CostLow},
		{model.OpMergePDFs, model.SelectMultiple, model.OutputPDF, model.CostMedium},
		{model.OpSplitPDF, model.SelectSingle, model.OutputMultiplePDF, model.CostMedium},
		{model.OpRotatePages, model.SelectSingle, model.OutputPDF, model.CostLow},
		{model.OpCompressPDF, model.SelectSingle, model.OutputPDF, model.CostHigh},
		{model.OpAddWatermark, model.SelectSingle, model.OutputPDF, model.CostLow},
		{model.OpExtractText, model.SelectSingle, model.OutputText, model.CostLow},
	}
	for _, tc := range cases {
		t.Run(string(tc.op), func(t *testing.T) {
			p := Plan(model.Command{Op: tc.op, Params: map[string]any{"k": "v"}})
			if p.Selection != tc.selection {
				t.Errorf("selection = %v, want %v", p.Selection, tc.selection)
			}
			if p.Output != tc.output {
				t.Errorf("output = %v, want %v", p.Output, tc.output)
			}
			if p.Cost != tc.cost {
				t.Errorf("cost = %v, want %v", p.Cost, tc.cost)
			}
			if p.Params["k"] != "v" {
				t.Error("expected params to be carried into the plan")
			}
		})
	}
}

func TestSelectInputs(t *testing.T) {
	files := []model.FileRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	t.Run("should pick the oldest file for single selection", func(t *testing.T) {
		got := SelectInputs(model.ExecutionPlan{Selection: model.SelectSingle}, files)
		if len(got) != 1 || got[0].ID != "a" {
			t.Fatalf("expected [a], but got %v", got)
		}
	})

	t.Run("should keep upload order for multiple selection", func(t *testing.T) {
		got := SelectInputs(model.ExecutionPlan{Selection: model.SelectMultiple}, files)
		if len(got) != 3 || got[0].ID != "a" || got[2].ID != "c" {
			t.Fatalf("expected [a b c], but got %v", got)
		}
	})

	t.Run("should return nothing when no files are available", func(t *testing.T) {
		if got := SelectInputs(model.ExecutionPlan{Selection: model.SelectSingle}, nil); got != nil {
			t.Fatalf("expected nil, but got %v", got)
		}
	})

	t.Run("should return nothing for none selection", func(t *testing.T) {
		if got := SelectInputs(model.ExecutionPlan{Selection: model.SelectNone}, files); got != nil {
			t.Fatalf("expected nil, but got %v", got)
		}
	})
}
