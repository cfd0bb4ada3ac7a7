package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input structs bind JSON and multipart bodies of the admin gateway. The
// validate tags apply on create; the update tags apply to partial updates
// where every field is optional.

type CategoryInput struct {
	Name        string `json:"name,omitempty" form:"name" validate:"required,min=2,max=150" update:"omitempty,min=2,max=150"`
	Slug        string `json:"slug,omitempty" form:"slug" validate:"omitempty,max=180" update:"omitempty,max=180"`
	ParentID    string `json:"parent_id,omitempty" form:"parent_id" validate:"omitempty,numeric" update:"omitempty,numeric"`
	Description string `json:"description,omitempty" form:"description" validate:"max=2000" update:"max=2000"`
	Status      string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive" update:"omitempty,oneof=active inactive"`
}

type SellerInput struct {
	Name                  string `json:"name,omitempty" form:"name" validate:"required,min=2,max=150" update:"omitempty,min=2,max=150"`
	Email                 string `json:"email,omitempty" form:"email" validate:"required,email,max=200" update:"omitempty,email,max=200"`
	Phone                 string `json:"phone,omitempty" form:"phone" validate:"omitempty,max=40" update:"omitempty,max=40"`
	CompanyName           string `json:"company_name,omitempty" form:"company_name" validate:"omitempty,max=200" update:"omitempty,max=200"`
	Address               string `json:"address,omitempty" form:"address" validate:"max=500" update:"max=500"`
	CountryID             string `json:"country_id,omitempty" form:"country_id" validate:"omitempty,numeric" update:"omitempty,numeric"`
	SubscriptionPackageID string `json:"subscription_package_id,omitempty" form:"subscription_package_id" validate:"omitempty,numeric" update:"omitempty,numeric"`
	Status                string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive pending suspended" update:"omitempty,oneof=active inactive pending suspended"`
}

type ProductInput struct {
	Name        string `json:"name,omitempty" form:"name" validate:"required,min=2,max=200" update:"omitempty,min=2,max=200"`
	SKU         string `json:"sku,omitempty" form:"sku" validate:"omitempty,max=64" update:"omitempty,max=64"`
	Price       string `json:"price,omitempty" form:"price" validate:"required,numeric" update:"omitempty,numeric"`
	Stock       string `json:"stock,omitempty" form:"stock" validate:"omitempty,numeric" update:"omitempty,numeric"`
	CategoryID  string `json:"category_id,omitempty" form:"category_id" validate:"required,numeric" update:"omitempty,numeric"`
	SellerID    string `json:"seller_id,omitempty" form:"seller_id" validate:"omitempty,numeric" update:"omitempty,numeric"`
	ColorID     string `json:"color_id,omitempty" form:"color_id" validate:"omitempty,numeric" update:"omitempty,numeric"`
	FinishID    string `json:"finish_id,omitempty" form:"finish_id" validate:"omitempty,numeric" update:"omitempty,numeric"`
	Description string `json:"description,omitempty" form:"description" validate:"max=5000" update:"max=5000"`
	Status      string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive draft" update:"omitempty,oneof=active inactive draft"`
}

type SubscriptionPackageInput struct {
	Name         string `json:"name,omitempty" form:"name" validate:"required,min=2,max=100" update:"omitempty,min=2,max=100"`
	Price        string `json:"price,omitempty" form:"price" validate:"required,numeric" update:"omitempty,numeric"`
	DurationDays string `json:"duration_days,omitempty" form:"duration_days" validate:"required,numeric" update:"omitempty,numeric"`
	ProductLimit string `json:"product_limit,omitempty" form:"product_limit" validate:"omitempty,numeric" update:"omitempty,numeric"`
	Description  string `json:"description,omitempty" form:"description" validate:"max=2000" update:"max=2000"`
	Status       string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive" update:"omitempty,oneof=active inactive"`
}

type SubscriptionInput struct {
	SellerID              string `json:"seller_id,omitempty" form:"seller_id" validate:"required,numeric" update:"omitempty,numeric"`
	SubscriptionPackageID string `json:"subscription_package_id,omitempty" form:"subscription_package_id" validate:"required,numeric" update:"omitempty,numeric"`
	StartDate             string `json:"start_date,omitempty" form:"start_date" validate:"omitempty,datetime=2006-01-02" update:"omitempty,datetime=2006-01-02"`
	EndDate               string `json:"end_date,omitempty" form:"end_date" validate:"omitempty,datetime=2006-01-02" update:"omitempty,datetime=2006-01-02"`
	Status                string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active pending expired cancelled" update:"omitempty,oneof=active pending expired cancelled"`
}

type OrderInput struct {
	Status string `json:"status,omitempty" form:"status" validate:"required,oneof=pending processing shipped delivered cancelled refunded" update:"omitempty,oneof=pending processing shipped delivered cancelled refunded"`
	Note   string `json:"note,omitempty" form:"note" validate:"max=1000" update:"max=1000"`
}

type FAQInput struct {
	Question  string `json:"question,omitempty" form:"question" validate:"required,min=5,max=500" update:"omitempty,min=5,max=500"`
	Answer    string `json:"answer,omitempty" form:"answer" validate:"required,min=2" update:"omitempty,min=2"`
	SortOrder string `json:"sort_order,omitempty" form:"sort_order" validate:"omitempty,numeric" update:"omitempty,numeric"`
	Status    string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive" update:"omitempty,oneof=active inactive"`
}

type ColorInput struct {
	Name    string `json:"name,omitempty" form:"name" validate:"required,min=2,max=60" update:"omitempty,min=2,max=60"`
	HexCode string `json:"hex_code,omitempty" form:"hex_code" validate:"required,hexcolor" update:"omitempty,hexcolor"`
	Status  string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive" update:"omitempty,oneof=active inactive"`
}

type FinishInput struct {
	Name   string `json:"name,omitempty" form:"name" validate:"required,min=2,max=60" update:"omitempty,min=2,max=60"`
	Status string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive" update:"omitempty,oneof=active inactive"`
}

type CountryInput struct {
	Name   string `json:"name,omitempty" form:"name" validate:"required,min=2,max=100" update:"omitempty,min=2,max=100"`
	Code   string `json:"code,omitempty" form:"code" validate:"required,len=2" update:"omitempty,len=2"`
	Status string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive" update:"omitempty,oneof=active inactive"`
}

var (
	createValidator = newValidator("validate")
	updateValidator = newValidator("update")
)

// newValidator reports fields by their JSON name so messages match the
// payload keys.
func newValidator(tag string) *validator.Validate {
	v := validator.New()
	v.SetTagName(tag)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCreate validates an input struct with its create rules.
func ValidateCreate(input any) error {
	return createValidator.Struct(input)
}

// ValidateUpdate validates an input struct with its partial update rules.
func ValidateUpdate(input any) error {
	return updateValidator.Struct(input)
}
