package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/heartcheck/internal/model"
	"github.com/hejijunhao/heartcheck/internal/pipeline"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict one patient",
	Long: "Predict one patient, given either --values (ten comma-separated encoded features in\n" +
		"canonical order) or the individual form flags.\n\n" +
		"Features: " + strings.Join(model.FeatureNames(), ", "),
	Example: `  heartcheck predict --values 63,1,1,145,233,1,2,150,0,2.3
  heartcheck predict --age 63 --sex Male --chest-pain "Typical Angina" --resting-bp 145 \
    --cholesterol 233 --fasting-blood-sugar True --resting-ecg "Left ventricular hypertrophy" \
    --max-heart-rate 150 --exercise-angina No --st-depression 2.3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vectorFromFlags(cmd)
		if err != nil {
			return err
		}

		eng, err := buildEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		out, err := buildOutput()
		if err != nil {
			return err
		}
		p := pipeline.New(eng, out, logger)
		defer p.Close()

		_, err = p.One(context.Background(), v)
		return err
	},
}

func init() {
	f := predictCmd.Flags()
	f.String("values", "", "Ten comma-separated encoded feature values")
	f.Float64("age", 0, "Age in years")
	f.String("sex", "", "Male or Female")
	f.String("chest-pain", "", "Typical Angina, Atypical Angina, Non-anginal Pain or Asymptomatic")
	f.Float64("resting-bp", 0, "Resting blood pressure (mm Hg)")
	f.Float64("cholesterol", 0, "Serum cholesterol (mg/dl)")
	f.String("fasting-blood-sugar", "", "True if fasting blood sugar > 120 mg/dl, else False")
	f.String("resting-ecg", "", "Normal, ST-T wave abnormality or Left ventricular hypertrophy")
	f.Float64("max-heart-rate", 0, "Maximum heart rate achieved")
	f.String("exercise-angina", "", "Yes or No")
	f.Float64("st-depression", 0, "ST depression induced by exercise (oldpeak)")
	predictCmd.MarkFlagsMutuallyExclusive("values", "sex")
}

func vectorFromFlags(cmd *cobra.Command) (model.Vector, error) {
	f := cmd.Flags()
	if raw, _ := f.GetString("values"); raw != "" {
		return parseValues(raw)
	}
	if !f.Changed("sex") {
		return model.Vector{}, fmt.Errorf("either --values or the form flags (--age, --sex, ...) are required")
	}

	var form model.Form
	form.Age, _ = f.GetFloat64("age")
	form.Sex, _ = f.GetString("sex")
	form.ChestPain, _ = f.GetString("chest-pain")
	form.RestingBloodPressure, _ = f.GetFloat64("resting-bp")
	form.Cholesterol, _ = f.GetFloat64("cholesterol")
	form.FastingBloodSugar, _ = f.GetString("fasting-blood-sugar")
	form.RestingECG, _ = f.GetString("resting-ecg")
	form.MaxHeartRate, _ = f.GetFloat64("max-heart-rate")
	form.ExerciseAngina, _ = f.GetString("exercise-angina")
	form.STDepression, _ = f.GetFloat64("st-depression")
	return form.Encode()
}

func parseValues(raw string) (model.Vector, error) {
	parts := strings.Split(raw, ",")
	values := make([]float64, len(parts))
	for i, s := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			name := fmt.Sprintf("value %d", i+1)
			if i < model.FeatureCount {
				name = model.FeatureNames()[i]
			}
			return model.Vector{}, model.NewInvalidInput(name, "not a number: %q", s)
		}
		values[i] = x
	}
	return model.VectorFromSlice(values)
}
