package domain

// ProfileData is the sparse multi-section profile record. Every section is
// independently optional; the backend is the authority on which fields it
// requires. The locally cached copy (the profile shadow) is always
// re-derivable from the last successful fetch or update response.
type ProfileData struct {
	Personal         *PersonalSection         `json:"personal,omitempty"`
	Address          *AddressSection          `json:"address,omitempty"`
	Education        *EducationSection        `json:"education,omitempty"`
	ParentGuardian   *GuardianSection         `json:"parentGuardian,omitempty"`
	EmergencyContact *EmergencyContactSection `json:"emergencyContact,omitempty"`
	Medical          *MedicalSection          `json:"medical,omitempty"`
	Professional     *ProfessionalSection     `json:"professional,omitempty"`
	Learning         *LearningSection         `json:"learning,omitempty"`
	Additional       *AdditionalSection       `json:"additional,omitempty"`
}

type PersonalSection struct {
	Gender        string `json:"gender,omitempty"`
	Nationality   string `json:"nationality,omitempty"`
	Religion      string `json:"religion,omitempty"`
	Category      string `json:"category,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
	ProfilePhoto  string `json:"profilePhoto,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

type AddressSection struct {
	CurrentCity      string `json:"currentCity,omitempty"`
	CurrentState     string `json:"currentState,omitempty"`
	CurrentPincode   string `json:"currentPincode,omitempty"`
	PermanentAddress string `json:"permanentAddress,omitempty"`
	PermanentCity    string `json:"permanentCity,omitempty"`
	PermanentState   string `json:"permanentState,omitempty"`
	PermanentPincode string `json:"permanentPincode,omitempty"`
	SameAsCurrent    bool   `json:"sameAsCurrent,omitempty"`
}

type EducationSection struct {
	TenthBoard               string `json:"tenthBoard,omitempty"`
	TenthSchool              string `json:"tenthSchool,omitempty"`
	TenthYear                string `json:"tenthYear,omitempty"`
	TenthPercentage          string `json:"tenthPercentage,omitempty"`
	TwelfthBoard             string `json:"twelfthBoard,omitempty"`
	TwelfthSchool            string `json:"twelfthSchool,omitempty"`
	TwelfthYear              string `json:"twelfthYear,omitempty"`
	TwelfthPercentage        string `json:"twelfthPercentage,omitempty"`
	GraduationDegree         string `json:"graduationDegree,omitempty"`
	GraduationUniversity     string `json:"graduationUniversity,omitempty"`
	GraduationYear           string `json:"graduationYear,omitempty"`
	GraduationPercentage     string `json:"graduationPercentage,omitempty"`
	PostGraduationDegree     string `json:"postGraduationDegree,omitempty"`
	PostGraduationUniversity string `json:"postGraduationUniversity,omitempty"`
	PostGraduationYear       string `json:"postGraduationYear,omitempty"`
	PostGraduationPercentage string `json:"postGraduationPercentage,omitempty"`
	LastQualificationYear    string `json:"lastQualificationYear,omitempty"`
}

type GuardianSection struct {
	Name          string `json:"name,omitempty"`
	Relationship  string `json:"relationship,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	Email         string `json:"email,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
	Address       string `json:"address,omitempty"`
}

type EmergencyContactSection struct {
	Name          string `json:"name,omitempty"`
	Relationship  string `json:"relationship,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
}

type MedicalSection struct {
	BloodGroup        string `json:"bloodGroup,omitempty"`
	MedicalConditions string `json:"medicalConditions,omitempty"`
	Allergies         string `json:"allergies,omitempty"`
	Medications       string `json:"medications,omitempty"`
}

type ProfessionalSection struct {
	CurrentEmployment  string `json:"currentEmployment,omitempty"`
	Designation        string `json:"designation,omitempty"`
	Organization       string `json:"organization,omitempty"`
	WorkExperience     string `json:"workExperience,omitempty"`
	PreviousEmployment string `json:"previousEmployment,omitempty"`
	Skills             string `json:"skills,omitempty"`
}

type LearningSection struct {
	CourseInterests        string `json:"courseInterests,omitempty"`
	CareerGoals            string `json:"careerGoals,omitempty"`
	TechnicalSkills        string `json:"technicalSkills,omitempty"`
	PreferredLearningStyle string `json:"preferredLearningStyle,omitempty"`
	Expectations           string `json:"expectations,omitempty"`
}

type AdditionalSection struct {
	Languages       string `json:"languages,omitempty"`
	Hobbies         string `json:"hobbies,omitempty"`
	Achievements    string `json:"achievements,omitempty"`
	Extracurricular string `json:"extracurricular,omitempty"`
	SocialMedia     string `json:"socialMedia,omitempty"`
}

// ProfileUpdateRequest wraps the sections sent to the update endpoint.
type ProfileUpdateRequest struct {
	ProfileData ProfileData `json:"profileData"`
}
