package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"sheetlens/internal/analytics"
	"sheetlens/internal/errors"
)

// Pipeline is a YAML description of the cleaning steps to run after load,
// in order: remediate, outliers, export. Absent sections are skipped.
//
//	remediate:
//	  impute_continuous_method: median
//	  remove_foreign: true
//	outliers:
//	  selected_columns: [price]
//	  imputation_method: mean
//	export: out/
type Pipeline struct {
	Remediate *analytics.RemediationOptions `yaml:"remediate" json:"remediate,omitempty"`
	Outliers  *PipelineOutliers             `yaml:"outliers" json:"outliers,omitempty"`
	Export    string                        `yaml:"export" json:"export,omitempty"`
}

// PipelineOutliers mirrors analytics.OutlierOptions with an optional factor
type PipelineOutliers struct {
	Columns       []string `yaml:"selected_columns" json:"selected_columns"`
	Method        string   `yaml:"imputation_method" json:"imputation_method"`
	WhiskerFactor *float64 `yaml:"whisker_factor" json:"whisker_factor,omitempty"`
}

// Options resolves the section, falling back to defaultFactor
func (p *PipelineOutliers) Options(defaultFactor float64) analytics.OutlierOptions {
	opts := analytics.OutlierOptions{Columns: p.Columns, Method: p.Method, WhiskerFactor: defaultFactor}
	if p.WhiskerFactor != nil {
		opts.WhiskerFactor = *p.WhiskerFactor
	}
	return opts
}

// UnmarshalYAML decodes a remediate section over
// analytics.DefaultRemediationOptions, so omitted methods stay mean and mode
func (p *Pipeline) UnmarshalYAML(node *yaml.Node) error {
	type plain Pipeline
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	if p.Remediate == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "remediate" {
			continue
		}
		opts := analytics.DefaultRemediationOptions()
		if err := node.Content[i+1].Decode(&opts); err != nil {
			return err
		}
		p.Remediate = &opts
	}
	return nil
}

// LoadPipeline reads a pipeline file
func LoadPipeline(path string) (*Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.CodeInternal, err, "failed to read pipeline %s", path)
	}
	var p Pipeline
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, errors.Wrapf(errors.CodeInternal, err, "failed to parse pipeline %s", path)
	}
	return &p, nil
}

// StepOutcome is the envelope header of one executed step
type StepOutcome struct {
	Step       string      `json:"step" yaml:"step"`
	ErrorCode  errors.Code `json:"error_code" yaml:"error_code"`
	StatusMsg  string      `json:"status_msg" yaml:"status_msg"`
	ErrorTrace string      `json:"error_trace,omitempty" yaml:"error_trace,omitempty"`
}

func outcome[T any](step string, res analytics.Result[T]) StepOutcome {
	return StepOutcome{Step: step, ErrorCode: res.ErrorCode, StatusMsg: res.StatusMsg, ErrorTrace: res.ErrorTrace}
}

// RunPipeline loads file and applies p, stopping at the first failed step.
// Steps that ran keep their effect on the engine's dataset.
func RunPipeline(engine *analytics.Engine, file string, p *Pipeline, defaultFactor float64) []StepOutcome {
	steps := []StepOutcome{outcome("load", engine.LoadFile(file))}
	if !engine.Loaded() {
		return steps
	}

	if p.Remediate != nil {
		res := engine.Remediate(*p.Remediate)
		steps = append(steps, outcome("remediate", res))
		if !res.OK() {
			return steps
		}
	}
	if p.Outliers != nil {
		res := engine.RemoveOutliers(p.Outliers.Options(defaultFactor))
		steps = append(steps, outcome("outliers", res))
		if !res.OK() {
			return steps
		}
	}
	if p.Export != "" {
		steps = append(steps, outcome("export", engine.Export(p.Export)))
	}
	return steps
}
