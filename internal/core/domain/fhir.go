package domain

import "strings"

// FHIR R4 Patient resource, the interoperable projection of a patient
// account. Only the fields the profile actually carries are emitted; empty
// slices are omitted from the JSON document.
type FHIRPatient struct {
	ResourceType string           `json:"resourceType" bson:"resource_type"`
	ID           string           `json:"id" bson:"id"`
	Identifier   []FHIRIdentifier `json:"identifier" bson:"identifier"`
	Active       bool             `json:"active" bson:"active"`
	Name         []FHIRHumanName  `json:"name,omitempty" bson:"name,omitempty"`
	Telecom      []FHIRContact    `json:"telecom,omitempty" bson:"telecom,omitempty"`
	BirthDate    string           `json:"birthDate,omitempty" bson:"birth_date,omitempty"`
	Address      []FHIRAddress    `json:"address,omitempty" bson:"address,omitempty"`
}

type FHIRIdentifier struct {
	System string `json:"system" bson:"system"`
	Value  string `json:"value" bson:"value"`
}

type FHIRHumanName struct {
	Use    string   `json:"use" bson:"use"`
	Family string   `json:"family,omitempty" bson:"family,omitempty"`
	Given  []string `json:"given,omitempty" bson:"given,omitempty"`
	Text   string   `json:"text,omitempty" bson:"text,omitempty"`
}

type FHIRContact struct {
	System string `json:"system" bson:"system"`
	Value  string `json:"value" bson:"value"`
}

type FHIRAddress struct {
	Text string `json:"text" bson:"text"`
}

// PatientIdentifierSystem namespaces the role-scoped PAT- identifier inside
// the FHIR document.
const PatientIdentifierSystem = "urn:carelink:patient-id"

// BuildFHIRPatient projects a patient account into a FHIR R4 Patient
// resource. The caller is expected to pass a patient-role profile; other
// roles have no FHIR representation.
func BuildFHIRPatient(p *AccountProfile) *FHIRPatient {
	doc := &FHIRPatient{
		ResourceType: "Patient",
		ID:           p.RoleID,
		Identifier: []FHIRIdentifier{
			{System: PatientIdentifierSystem, Value: p.RoleID},
		},
		Active:    true,
		BirthDate: p.DateOfBirth,
	}

	if p.FirstName != "" || p.LastName != "" {
		name := FHIRHumanName{
			Use:    "official",
			Family: p.LastName,
			Text:   strings.TrimSpace(p.FirstName + " " + p.LastName),
		}
		if p.FirstName != "" {
			name.Given = []string{p.FirstName}
		}
		doc.Name = []FHIRHumanName{name}
	}

	if p.Phone != "" {
		doc.Telecom = append(doc.Telecom, FHIRContact{System: "phone", Value: p.Phone})
	}
	if p.Email != "" {
		doc.Telecom = append(doc.Telecom, FHIRContact{System: "email", Value: p.Email})
	}

	if p.Address != "" {
		doc.Address = []FHIRAddress{{Text: p.Address}}
	}

	return doc
}
