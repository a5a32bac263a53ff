// Package heartcheck predicts heart-disease severity (0 healthy through 4)
// from ten clinical features.
//
// Quick start:
//
//	h, err := heartcheck.New(
//	    heartcheck.WithDatasetPath("Dataset/df_cleaned.csv"),
//	    heartcheck.WithModelPath("Model/rf_model_normalisasi.onnx"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	p, _ := h.Predict([]float64{63, 1, 1, 145, 233, 1, 2, 150, 0, 2.3})
//	fmt.Println(p.Label, p.Severity)
//
// New balances the reference dataset, fits the scaler and scores the
// classifier once. The instance is then read-only and safe for concurrent
// use. Create once, reuse across requests.
package heartcheck
