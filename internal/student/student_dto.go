package student

type RegisterStudentRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	AgeGroup        string `json:"age_group" binding:"required"`
	GuardianContact string `json:"guardian_contact"`
}

type UpdateStudentRequest struct {
	FullName        *string `json:"full_name"`
	AgeGroup        *string `json:"age_group"`
	GuardianContact *string `json:"guardian_contact"`
	Status          *string `json:"status"`
}

type EnrollFaceRequest struct {
	ImageB64 string `json:"image_b64" binding:"required"`
}

type IdentifyFaceRequest struct {
	ImageB64 string `json:"image_b64" binding:"required"`
}

type StudentResponse struct {
	ID                  string `json:"id"`
	AccessKey           string `json:"access_key"`
	FullName            string `json:"full_name"`
	AgeGroup            string `json:"age_group"`
	GuardianContact     string `json:"guardian_contact,omitempty"`
	FaceEnrolled        bool   `json:"face_enrolled"`
	ConsecutiveAbsences int    `json:"consecutive_absences"`
	Status              string `json:"status"`
}

type IdentifyFaceResponse struct {
	Student    StudentResponse `json:"student"`
	Similarity float64         `json:"similarity"`
	Threshold  float64         `json:"threshold"`
}
