package report

// catalogEntry carries the editorial content attached to a condition
// label when composing results.
type catalogEntry struct {
	Description string
	NextSteps   []string
	Treatments  []string
}

// catalog maps the classifier's condition labels to patient-facing
// content. Labels absent from the catalog fall back to genericEntry.
var catalog = map[string]catalogEntry{
	"Acne": {
		Description: "A common condition where hair follicles become clogged with oil and dead skin cells, causing pimples, blackheads and whiteheads.",
		NextSteps: []string{
			"Wash affected areas twice daily with a gentle cleanser",
			"Avoid picking or squeezing lesions",
			"Consult a dermatologist if over-the-counter treatment fails",
		},
		Treatments: []string{
			"Topical retinoids or benzoyl peroxide",
			"Topical or oral antibiotics for inflammatory acne",
			"Hormonal therapy where appropriate",
		},
	},
	"Eczema": {
		Description: "A chronic inflammatory skin condition characterized by dry, itchy, and inflamed skin. It often appears in patches and can cause significant discomfort.",
		NextSteps: []string{
			"Consult with a dermatologist for proper evaluation and treatment plan",
			"Avoid triggers such as harsh soaps, certain fabrics, and extreme temperatures",
			"Keep skin moisturized with fragrance-free emollients",
			"Apply prescribed topical medications as directed",
		},
		Treatments: []string{
			"Topical corticosteroids to reduce inflammation",
			"Calcineurin inhibitors (tacrolimus, pimecrolimus)",
			"Moisturizers and emollients to maintain skin hydration",
			"Antihistamines for itching relief",
			"Phototherapy for severe cases",
		},
	},
	"Melanoma": {
		Description: "A serious form of skin cancer that develops in the cells that produce melanin. Early detection is critical to successful treatment.",
		NextSteps: []string{
			"Seek urgent evaluation by a dermatologist",
			"Do not delay: early biopsy is essential for suspicious lesions",
			"Photograph the lesion to track any change in size, shape or color",
		},
		Treatments: []string{
			"Surgical excision of the lesion",
			"Sentinel lymph node biopsy where indicated",
			"Immunotherapy or targeted therapy for advanced disease",
		},
	},
	"Psoriasis": {
		Description: "A chronic autoimmune condition that causes rapid skin cell turnover, resulting in thick, red patches with silvery scales. It can affect various body areas.",
		NextSteps: []string{
			"Monitor for changes in skin condition",
			"Maintain good skin hygiene and moisturizing routine",
			"Consider evaluation if symptoms worsen or change",
		},
		Treatments: []string{
			"Topical corticosteroids and vitamin D analogues",
			"Phototherapy",
			"Systemic or biologic therapy for moderate-to-severe disease",
		},
	},
	"Rosacea": {
		Description: "A chronic inflammatory condition causing facial redness, visible blood vessels and sometimes small red bumps, typically affecting the central face.",
		NextSteps: []string{
			"Identify and avoid personal triggers such as heat, alcohol and spicy food",
			"Use gentle, fragrance-free skin care and daily sun protection",
			"Consult a dermatologist for persistent redness or eye involvement",
		},
		Treatments: []string{
			"Topical metronidazole or azelaic acid",
			"Oral antibiotics for papulopustular flares",
			"Laser therapy for persistent visible vessels",
		},
	},
	"Vitiligo": {
		Description: "A condition in which pigment-producing cells are lost, causing well-defined white patches of skin that may slowly grow over time.",
		NextSteps: []string{
			"Consult a dermatologist to confirm the diagnosis",
			"Protect depigmented patches from sun exposure",
			"Discuss repigmentation options early, when treatment is most effective",
		},
		Treatments: []string{
			"Topical corticosteroids or calcineurin inhibitors",
			"Narrowband UVB phototherapy",
			"Cosmetic camouflage where desired",
		},
	},
	"Healthy Skin": {
		Description: "No disease pattern was identified in the analyzed image.",
		NextSteps: []string{
			"Continue routine skin care and sun protection",
			"Re-check if the area changes in size, shape or color",
		},
		Treatments: []string{
			"No treatment indicated",
		},
	},
	"Contact Dermatitis": {
		Description: "An inflammatory skin condition resulting from contact with allergens or irritants. It causes redness, itching, and sometimes blistering at the site of contact.",
		NextSteps: []string{
			"Identify and avoid potential allergens or irritants",
			"Use hypoallergenic products for skin care and cleaning",
			"Apply cool compresses to relieve symptoms",
			"Consider patch testing to identify specific allergens",
		},
		Treatments: []string{
			"Topical corticosteroids for inflammation reduction",
			"Barrier creams to protect skin from irritants",
			"Oral antihistamines for itching",
			"Calamine lotion for symptom relief",
		},
	},
}

var genericEntry = catalogEntry{
	Description: "A possible skin condition identified by the classifier.",
	NextSteps: []string{
		"Consult a dermatologist for evaluation",
		"Monitor the area for changes",
	},
	Treatments: []string{
		"Treatment depends on clinical confirmation",
	},
}

func lookupCatalog(label string) catalogEntry {
	if e, ok := catalog[label]; ok {
		return e
	}
	return genericEntry
}
