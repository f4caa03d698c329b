package services

import (
	"bytes"

	"github.com/nova-solidum/app-onboarding/internal/models"
)

func pngSlot(name string) models.FileSlot {
	return models.PresentFileSlot(name, "image/png", []byte("\x89PNG fake image"))
}

func pdfSlot(name string) models.FileSlot {
	return models.PresentFileSlot(name, "application/pdf", []byte("%PDF-1.4 fake"))
}

func oversizedSlot(name, mimeType string) models.FileSlot {
	return models.PresentFileSlot(name, mimeType, bytes.Repeat([]byte("a"), int(MaxDocumentSize)+1))
}

// validIndividualDraft is a complete domestic PF draft
func validIndividualDraft() *models.RegistrationDraft {
	d := models.NewRegistrationDraft()
	d.AccountType = models.AccountTypeIndividual
	d.Set(models.FieldFullName, "Maria da Silva")
	d.Set(models.FieldCPF, "111.444.777-35")
	d.Set(models.FieldBirthDate, "1990-05-20")
	d.Set(models.FieldUserEmail, "maria@example.com")
	d.Set(models.FieldUserPhone, "+5511999999999")
	d.Set(models.FieldCEP, "01310-100")
	d.Set(models.FieldStreet, "Avenida Paulista")
	d.Set(models.FieldNumber, "1000")
	d.Set(models.FieldDistrict, "Bela Vista")
	d.Set(models.FieldCity, "São Paulo")
	d.Set(models.FieldState, "SP")
	d.SetFile(models.FieldDocumentFront, pngSlot("front.png"))
	d.SetFile(models.FieldDocumentBack, pngSlot("back.png"))
	d.AcceptTerms = true
	return d
}

// validCompanyDraft is a complete PJ draft
func validCompanyDraft() *models.RegistrationDraft {
	d := models.NewRegistrationDraft()
	d.AccountType = models.AccountTypeCompany
	d.Set(models.FieldCompanyName, "Solidum Comercio LTDA")
	d.Set(models.FieldTradeName, "Solidum")
	d.Set(models.FieldCNPJ, "11.222.333/0001-81")
	d.Set(models.FieldFoundationDate, "2010-01-15")
	d.Set(models.FieldMainCNAE, "6201-5/01")
	d.Set(models.FieldCompanyEmail, "contato@solidum.com.br")
	d.Set(models.FieldCompanyPhone, "+551133334444")
	d.Set(models.FieldPJCEP, "01310100")
	d.Set(models.FieldPJStreet, "Avenida Paulista")
	d.Set(models.FieldPJNumber, "200")
	d.Set(models.FieldPJDistrict, "Bela Vista")
	d.Set(models.FieldPJCity, "São Paulo")
	d.Set(models.FieldPJState, "SP")
	d.Set(models.FieldAdminName, "João Souza")
	d.Set(models.FieldAdminCPF, "11144477735")
	d.Set(models.FieldAdminEmail, "joao@solidum.com.br")
	d.Set(models.FieldAdminPhone, "+5511988887777")
	d.SetFile(models.FieldAdminIDFront, pngSlot("admin-front.png"))
	d.SetFile(models.FieldAdminIDBack, pdfSlot("admin-back.pdf"))
	d.AcceptTerms = true
	return d
}
