package severity

import "golang.org/x/text/language"

// DefaultLevels returns the built-in five-level table.
func DefaultLevels() []Level {
	en, id := language.English, language.Indonesian
	return []Level{
		{
			Label: 0,
			Name:  "Healthy",
			Descriptions: map[language.Tag]string{
				en: "Indicates that the patient does not have heart disease.",
				id: "Menunjukkan bahwa pengguna tidak memiliki penyakit jantung.",
			},
		},
		{
			Label: 1,
			Name:  "Heart Disease Level 1",
			Descriptions: map[language.Tag]string{
				en: "Indicates mild heart disease. Usually read as an early symptom of heart disease.",
				id: "Menunjukkan bahwa pengguna memiliki penyakit jantung tingkat ringan. Biasanya diartikan sebagai gejala awal penyakit jantung.",
			},
		},
		{
			Label: 2,
			Name:  "Heart Disease Level 2",
			Descriptions: map[language.Tag]string{
				en: "Indicates moderate heart disease that has already developed. Symptoms and risk worsen if not treated promptly.",
				id: "Menunjukkan bahwa pengguna memiliki penyakit jantung tingkat sedang. Biasanya diartikan sebagai penyakit jantung yang sudah berkembang. Gejala dan risiko akan bertambah berat jika tidak segera ditangani.",
			},
		},
		{
			Label: 3,
			Name:  "Heart Disease Level 3",
			Descriptions: map[language.Tag]string{
				en: "Indicates severe heart disease that needs prompt treatment. Immediate, intensive medical care is recommended.",
				id: "Menunjukkan bahwa pengguna memiliki penyakit jantung tingkat berat. Biasanya diartikan sebagai penyakit jantung yang sudah parah dan memerlukan penanganan segera. Lebih disarankan segera perawatan medis dan intensif.",
			},
		},
		{
			Label: 4,
			Name:  "Heart Disease Level 4",
			Descriptions: map[language.Tag]string{
				en: "Indicates very severe heart disease with very high risk. Very intensive care is required.",
				id: "Menunjukkan bahwa pengguna memiliki penyakit jantung tingkat sangat berat. Biasanya diartikan sebagai penyakit jantung yang sudah sangat parah dan mempunyai risiko yang sangat tinggi. Sangat memerlukan perawatan yang sangat intensif.",
			},
		},
	}
}

// Default returns the built-in table with English as the fallback language.
func Default() *Table {
	t, err := New(DefaultLevels(), language.English, language.Indonesian)
	if err != nil {
		panic(err)
	}
	return t
}
