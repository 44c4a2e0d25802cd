/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package userdocs

// Document is a user document as served by the user-docs service.
type Document struct {
	DocID      string `json:"doc_id"`
	DocName    string `json:"doc_name"`
	DocType    string `json:"doc_type,omitempty"`
	DocSubtype string `json:"doc_subtype,omitempty"`
	DocData    string `json:"doc_data,omitempty"`
}

// UploadRequest is a document upload.
type UploadRequest struct {
	DocName      string
	DocType      string
	DocSubtype   string
	FileName     string
	FileContents []byte
}

// DocumentType is a recognized document category.
type DocumentType struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	DocType    string `json:"doc_type"`
	DocSubtype string `json:"doc_subtype"`
}

// DocumentTypes returns the catalog of recognized document categories.
func DocumentTypes() []DocumentType {
	return []DocumentType{
		{Value: "Aadhaar Card", Label: "Aadhaar Card", DocType: "idProof", DocSubtype: "aadhaar"},
		{Value: "Jan Aadhar", Label: "Jan Aadhar", DocType: "janAadhar", DocSubtype: "janAadharCertificate"},
		{Value: "Caste Certificate", Label: "Caste Certificate", DocType: "casteProof", DocSubtype: "casteCertificate"},
		{
			Value: "Income Certificate", Label: "Income Certificate",
			DocType: "incomeProof", DocSubtype: "incomeCertificate",
		},
		{
			Value: "Enrollment Certificate (with hosteller/day scholar information)",
			Label: "Enrollment Certificate (with hosteller/day scholar information)",
			DocType: "associationProof", DocSubtype: "enrollmentCertificate",
		},
		{Value: "Marksheet", Label: "Marksheet", DocType: "marksProof", DocSubtype: "marksheet"},
		{
			Value: "Disability Certificate", Label: "Disability Certificate",
			DocType: "disabilityProof", DocSubtype: "disabilityCertificate",
		},
		{
			Value: "Sports Competition participation certificate",
			Label: "Sports Competition participation certificate",
			DocType: "participationProof", DocSubtype: "participationCertificate",
		},
		{Value: "Birth Certificate", Label: "Birth Certificate", DocType: "birthProof", DocSubtype: "birthCertificate"},
	}
}
