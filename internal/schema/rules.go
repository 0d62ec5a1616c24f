package schema

import (
	"fmt"
	"strings"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// fieldRules lists the required and recommended fields of a schema type.
// Missing required fields are errors; missing recommended fields are warnings.
type fieldRules struct {
	Required    []string
	Recommended []string
}

// schemaFieldRules maps lower-cased schema type names to their field rules.
// Types with structural requirements (BreadcrumbList, FAQPage) have dedicated
// validators in addition to, or instead of, the flat field lists.
var schemaFieldRules = map[string]fieldRules{
	"organization": {
		Required:    []string{"name", "url"},
		Recommended: []string{"logo", "sameAs", "contactPoint"},
	},
	"localbusiness": {
		Required:    []string{"name", "address"},
		Recommended: []string{"telephone", "openingHours", "geo", "priceRange"},
	},
	"product": {
		Required:    []string{"name", "image"},
		Recommended: []string{"description", "sku", "offers", "aggregateRating", "brand"},
	},
	"article": {
		Required:    []string{"headline", "image", "author", "datePublished"},
		Recommended: []string{"dateModified", "publisher", "mainEntityOfPage", "description"},
	},
	"newsarticle": {
		Required:    []string{"headline", "image", "author", "datePublished"},
		Recommended: []string{"dateModified", "publisher", "mainEntityOfPage", "description"},
	},
	"blogposting": {
		Required:    []string{"headline", "image", "author", "datePublished"},
		Recommended: []string{"dateModified", "publisher", "mainEntityOfPage", "description"},
	},
	"recipe": {
		Required:    []string{"name", "image", "recipeIngredient", "recipeInstructions"},
		Recommended: []string{"prepTime", "cookTime", "totalTime", "recipeYield", "nutrition", "aggregateRating"},
	},
}

// recommendedSchemas maps detected page categories to the schema types worth
// having on such pages.
var recommendedSchemas = map[string][]string{
	"homepage": {"Organization", "WebSite"},
	"product":  {"Product", "BreadcrumbList"},
	"article":  {"Article", "BreadcrumbList"},
	"local":    {"LocalBusiness"},
	"person":   {"Person"},
	"event":    {"Event"},
	"faq":      {"FAQPage"},
	"recipe":   {"Recipe"},
	"video":    {"VideoObject"},
}

// validateRecord checks one record against the type rules, appending
// findings to the result.
func validateRecord(result *model.SchemaResult, record model.SchemaRecord) {
	if record.Type == "" {
		result.Errors = append(result.Errors, "Schema is missing the @type field")
		return
	}

	if record.Format == model.SchemaFormatJSONLD {
		if _, ok := record.Properties["@context"]; !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s schema is missing @context", record.Type))
		}
	}

	typeKey := strings.ToLower(record.Type)
	switch typeKey {
	case "breadcrumblist":
		validateBreadcrumbList(result, record)
		return
	case "faqpage":
		validateFAQPage(result, record)
		return
	}

	rules, ok := schemaFieldRules[typeKey]
	if !ok {
		return
	}

	for _, field := range rules.Required {
		if !hasProperty(record.Properties, field) {
			result.Errors = append(result.Errors, fmt.Sprintf("%s schema is missing required field %q", record.Type, field))
		}
	}
	for _, field := range rules.Recommended {
		if !hasProperty(record.Properties, field) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s schema is missing recommended field %q", record.Type, field))
		}
	}

	if typeKey == "product" {
		validateOffers(result, record)
	}
}

// validateOffers checks the nested offer of a Product record.
func validateOffers(result *model.SchemaResult, record model.SchemaRecord) {
	offersValue, ok := record.Properties["offers"]
	if !ok {
		return
	}

	offer, ok := offersValue.(map[string]any)
	if !ok {
		if list, isList := offersValue.([]any); isList && len(list) > 0 {
			offer, ok = list[0].(map[string]any)
		}
	}
	if !ok || offer == nil {
		return
	}

	for _, field := range []string{"price", "priceCurrency"} {
		if !hasProperty(offer, field) {
			result.Errors = append(result.Errors, fmt.Sprintf("Product offer is missing required field %q", field))
		}
	}
}

// validateBreadcrumbList checks the itemListElement structure.
func validateBreadcrumbList(result *model.SchemaResult, record model.SchemaRecord) {
	elements, ok := record.Properties["itemListElement"].([]any)
	if !ok || len(elements) == 0 {
		result.Errors = append(result.Errors, "BreadcrumbList schema has no itemListElement entries")
		return
	}

	for i, element := range elements {
		item, ok := element.(map[string]any)
		if !ok {
			continue
		}
		if !hasProperty(item, "position") {
			result.Errors = append(result.Errors, fmt.Sprintf("BreadcrumbList item %d is missing position", i+1))
		}
		if !hasProperty(item, "name") && !nestedHasProperty(item, "item", "name") {
			result.Warnings = append(result.Warnings, fmt.Sprintf("BreadcrumbList item %d is missing a name", i+1))
		}
	}
}

// validateFAQPage checks the mainEntity question structure.
func validateFAQPage(result *model.SchemaResult, record model.SchemaRecord) {
	questions, ok := record.Properties["mainEntity"].([]any)
	if !ok {
		if single, isMap := record.Properties["mainEntity"].(map[string]any); isMap {
			questions = []any{single}
		} else {
			result.Errors = append(result.Errors, "FAQPage schema has no mainEntity questions")
			return
		}
	}
	if len(questions) == 0 {
		result.Errors = append(result.Errors, "FAQPage schema has no mainEntity questions")
		return
	}

	for i, q := range questions {
		question, ok := q.(map[string]any)
		if !ok {
			continue
		}
		if !hasProperty(question, "name") {
			result.Errors = append(result.Errors, fmt.Sprintf("FAQPage question %d is missing its name", i+1))
		}
		answer, hasAnswer := question["acceptedAnswer"].(map[string]any)
		if !hasAnswer {
			result.Errors = append(result.Errors, fmt.Sprintf("FAQPage question %d is missing acceptedAnswer", i+1))
			continue
		}
		if !hasProperty(answer, "text") {
			result.Warnings = append(result.Warnings, fmt.Sprintf("FAQPage question %d has an answer without text", i+1))
		}
	}
}

// hasProperty reports whether the property exists with a non-empty value.
func hasProperty(props map[string]any, field string) bool {
	value, ok := props[field]
	if !ok {
		return false
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case nil:
		return false
	default:
		return true
	}
}

// nestedHasProperty reports whether props[outer][inner] exists.
func nestedHasProperty(props map[string]any, outer, inner string) bool {
	nested, ok := props[outer].(map[string]any)
	if !ok {
		return false
	}
	return hasProperty(nested, inner)
}
