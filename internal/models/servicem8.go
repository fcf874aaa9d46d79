package models

// ServiceM8 resources. Field names follow the REST API's JSON.

type Job struct {
	UUID                string `json:"uuid"`
	Active              int    `json:"active"`
	Date                string `json:"date"`
	CompanyUUID         string `json:"company_uuid"`
	GeneratedJobID      string `json:"generated_job_id"`
	Status              string `json:"status"`
	JobAddress          string `json:"job_address"`
	JobDescription      string `json:"job_description"`
	WorkDoneDescription string `json:"work_done_description"`
	PurchaseOrderNumber string `json:"purchase_order_number"`
	TotalInvoiceAmount  string `json:"total_invoice_amount"`
	EditDate            string `json:"edit_date"`
}

type CompanyContact struct {
	UUID             string `json:"uuid"`
	Active           int    `json:"active"`
	CompanyUUID      string `json:"company_uuid"`
	First            string `json:"first"`
	Last             string `json:"last"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Mobile           string `json:"mobile"`
	Type             string `json:"type"`
	IsPrimaryContact string `json:"is_primary_contact"`
}

type Attachment struct {
	UUID              string `json:"uuid"`
	Active            int    `json:"active"`
	RelatedObject     string `json:"related_object"`
	RelatedObjectUUID string `json:"related_object_uuid"`
	AttachmentName    string `json:"attachment_name"`
	FileType          string `json:"file_type"`
	AttachmentSource  string `json:"attachment_source"`
	Tags              string `json:"tags"`
	EditDate          string `json:"edit_date"`
}

type JobWithAttachments struct {
	Job
	Attachments []Attachment `json:"attachments"`
}
