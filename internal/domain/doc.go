// Package domain models dengue case notification data and the derived
// statistics served by the dashboard.
//
// # Data Source
//
// Case records come from a treated extract of SINAN (Sistema de Informação de
// Agravos de Notificação) dengue notifications for a single municipality. The
// extract is a CSV produced by an offline preparation step; this service only
// reads it.
//
// # Column Conventions
//
// Dates:
//
//	DT_NOTIFIC (notification) and DT_SIN_PRI (first symptoms) in ISO form
//	"2006-01-02". Brazilian "02/01/2006" is accepted as a fallback because
//	older extracts used it. NU_ANO is derived from DT_NOTIFIC.
//
// Hospitalization (HOSPITALIZ):
//
//	Ternary: "SIM", "NÃO", "IGNORADO". Values are upper-cased on parse; an
//	empty value is normalized to "IGNORADO". Only "SIM" counts as
//	hospitalized in every aggregate.
//
// Categories (CS_SEXO, CS_RACA, FENOMENO, INTENSIDADE):
//
//	Free-form SINAN category strings, kept as-is apart from trimming.
//	Empty values are normalized to "IGNORADO" so missing data forms its own
//	bucket instead of being dropped.
//
// Age (IDADE):
//
//	Integer years. Age buckets for hospitalization rates are the half-open
//	decades [0,10), [10,20) … [80,90), [90,120), labeled "0-10", "11-20" …
//	"81-90", "90+". Ages outside [0,120) fall in no bucket.
//
// # Severity Score
//
// The predictive model consumes a severity score computed from the five
// user-reported symptoms:
//
//	severity = FEBRE + MIALGIA + CEFALEIA + 3×VOMITO + EXANTEMA
//
// The 3× weight on VOMITO comes from the model's training pipeline and must
// not change independently of the trained artifact. A symptom flag is
// affirmative iff the submitted token equals "SIM" case-insensitively; any
// other token, including an absent one, is negative.
package domain
