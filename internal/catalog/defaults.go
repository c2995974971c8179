package catalog

import "github.com/symptom-analyzer/internal/domain"

var defaultSymptoms = []string{
	"fever", "cough", "fatigue", "difficulty_breathing", "body_aches",
	"headache", "sore_throat", "loss_of_taste", "nausea", "diarrhea",
	"chills", "rash", "congestion", "vomiting", "chest_pain",
	"dizziness", "sweating", "muscle_weakness", "joint_pain", "runny_nose",
	"loss_of_smell", "eye_pain", "abdominal_pain", "heart_palpitations", "swollen_lymph_nodes",
	"weight_loss", "appetite_loss", "bleeding", "shortness_of_breath", "confusion",
}

var defaultConditions = []string{
	"Common Cold", "COVID-19", "Flu", "Bronchitis", "Pneumonia",
	"Allergies", "Asthma", "Migraine", "Sinus Infection", "Tuberculosis",
	"Malaria", "Dengue", "Gastroenteritis", "Chronic Fatigue Syndrome", "Meningitis",
}

var defaultWeights = map[string]float64{
	"fever":                0.6,
	"cough":                0.4,
	"fatigue":              0.3,
	"difficulty_breathing": 0.8,
	"body_aches":           0.3,
	"headache":             0.2,
	"sore_throat":          0.2,
	"loss_of_taste":        0.4,
	"nausea":               0.3,
	"diarrhea":             0.3,
	"chills":               0.4,
	"rash":                 0.3,
	"congestion":           0.2,
	"vomiting":             0.5,
	"chest_pain":           0.7,
	"dizziness":            0.3,
	"sweating":             0.3,
	"muscle_weakness":      0.4,
	"joint_pain":           0.3,
	"runny_nose":           0.2,
	"loss_of_smell":        0.4,
	"eye_pain":             0.2,
	"abdominal_pain":       0.5,
	"heart_palpitations":   0.7,
	"swollen_lymph_nodes":  0.3,
	"weight_loss":          0.6,
	"appetite_loss":        0.4,
	"bleeding":             0.8,
	"shortness_of_breath":  0.8,
	"confusion":            0.7,
}

var defaultMedications = map[string][]string{
	"Common Cold": {
		"Paracetamol for fever and pain relief",
		"Decongestants like pseudoephedrine",
		"Cough suppressants containing dextromethorphan",
		"Antihistamines for runny nose",
	},
	"COVID-19": {
		"Paracetamol for fever",
		"Stay hydrated and rest",
		"Follow current medical guidelines",
		"Consult doctor for specific treatments",
	},
	"Flu": {
		"Oseltamivir (Tamiflu) if prescribed",
		"Paracetamol or ibuprofen for fever",
		"Decongestants for nasal congestion",
		"Plenty of fluids and rest",
	},
	"Bronchitis": {
		"Expectorants to help clear mucus",
		"Cough suppressants for sleep",
		"Bronchodilators if prescribed",
		"Steam inhalation",
	},
	"Pneumonia": {
		"Prescribed antibiotics if bacterial",
		"Pain relievers for chest pain",
		"Cough medicine",
		"Immediate medical attention required",
	},
	"Allergies": {
		"Antihistamines (e.g., cetirizine, loratadine)",
		"Nasal corticosteroids if prescribed",
		"Decongestants for blocked nose",
		"Avoid known allergens",
	},
	"Asthma": {
		"Inhaled bronchodilators",
		"Prescribed corticosteroids",
		"Peak flow monitoring",
		"Follow asthma action plan",
	},
	"Migraine": {
		"Pain relievers (ibuprofen, aspirin)",
		"Anti-migraine medications if prescribed",
		"Rest in a quiet, dark room",
		"Stay hydrated",
	},
	"Sinus Infection": {
		"Saline nasal spray",
		"Decongestants",
		"Pain relievers",
		"Antibiotics if prescribed",
	},
	"Tuberculosis": {
		"Prescribed TB medications only",
		"Complete full course of treatment",
		"Regular medical monitoring",
		"Immediate medical attention required",
	},
	"Malaria": {
		"Prescribed antimalarial medications",
		"Fever reducers",
		"Immediate medical attention required",
		"Complete prescribed course",
	},
	"Dengue": {
		"Paracetamol for fever (avoid aspirin)",
		"Plenty of fluids",
		"Rest and monitoring",
		"Immediate medical attention required",
	},
	"Gastroenteritis": {
		"Oral rehydration solutions",
		"Anti-diarrheal medication if needed",
		"Bland diet (BRAT)",
		"Probiotics may help",
	},
	"Chronic Fatigue Syndrome": {
		"Pain relievers as needed",
		"Sleep medications if prescribed",
		"Antidepressants if prescribed",
		"Professional medical supervision required",
	},
	"Meningitis": {
		"Emergency medical attention required",
		"Prescribed antibiotics if bacterial",
		"Pain relief medication",
		"Hospital treatment necessary",
	},
}

var defaultFees = map[string]domain.ConsultationFees{
	"Common Cold":              {Initial: 300, FollowUp: 200},
	"COVID-19":                 {Initial: 2000, FollowUp: 1000},
	"Flu":                      {Initial: 400, FollowUp: 250},
	"Bronchitis":               {Initial: 450, FollowUp: 300},
	"Pneumonia":                {Initial: 600, FollowUp: 400},
	"Allergies":                {Initial: 350, FollowUp: 250},
	"Asthma":                   {Initial: 500, FollowUp: 350},
	"Migraine":                 {Initial: 400, FollowUp: 300},
	"Sinus Infection":          {Initial: 350, FollowUp: 250},
	"Tuberculosis":             {Initial: 5000, FollowUp: 2500},
	"Malaria":                  {Initial: 550, FollowUp: 400},
	"Dengue":                   {Initial: 6000, FollowUp: 4500},
	"Gastroenteritis":          {Initial: 4500, FollowUp: 3000},
	"Chronic Fatigue Syndrome": {Initial: 6500, FollowUp: 4000},
	"Meningitis":               {Initial: 8000, FollowUp: 6000},
}

// DefaultSpec returns a fresh copy of the reference tables.
func DefaultSpec() Spec {
	s := Spec{
		Currency:        DefaultCurrency,
		Symptoms:        append([]string(nil), defaultSymptoms...),
		Conditions:      append([]string(nil), defaultConditions...),
		SeverityWeights: make(map[string]float64, len(defaultWeights)),
		Medications:     make(map[string][]string, len(defaultMedications)),
		Fees:            make(map[string]domain.ConsultationFees, len(defaultFees)),
	}
	for k, v := range defaultWeights {
		s.SeverityWeights[k] = v
	}
	for k, v := range defaultMedications {
		s.Medications[k] = append([]string(nil), v...)
	}
	for k, v := range defaultFees {
		s.Fees[k] = v
	}
	return s
}

// Default returns the reference catalog: 30 symptoms, 15 conditions.
func Default() *Catalog {
	return MustNew(DefaultSpec())
}
