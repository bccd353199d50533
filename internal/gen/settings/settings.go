// Package settings compiles the parsed schema into the firmware's default
// settings C++ module: one statically initialized storage declaration per
// setting plus the Settings::InitializeDefault body registering each storage
// address and size under its symbolic key.
package settings

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/rthr/stationbuild/internal/gen/atomicfile"
	"github.com/rthr/stationbuild/internal/gen/schema"
)

const moduleTemplate = `/*******************************************************************************
 * @file SettingsDefault.cpp
 *
 * @see Settings.h
 *
 * @author Alexy Torres Aurora Dugo
 *
 * @date 18/12/2025
 *
 * @version 1.0
 *
 * @brief Weather Station Firmware default setting repository.
 *
 * @details Weather Station Firmware default setting repository. This file ` + `
 * is auto-generated and contains the default settings used by the firmware.
 *
 * @copyright Alexy Torres Aurora Dugo
 ******************************************************************************/

/*******************************************************************************
 * INCLUDES
 ******************************************************************************/
#include <map>        /* Standard hashmap */
#include <cstdint>    /* Standard int types */
#include <Settings.h> /* Settings */

/*******************************************************************************
 * CONSTANTS
 ******************************************************************************/

/*******************************************************************************
 * STRUCTURES AND TYPES
 ******************************************************************************/
/* None */

/*******************************************************************************
 * MACROS
 ******************************************************************************/
/* None */

/*******************************************************************************
 * STATIC FUNCTIONS DECLARATIONS
 ******************************************************************************/
/* None */

/*******************************************************************************
 * GLOBAL VARIABLES
 ******************************************************************************/

/************************* Imported global variables **************************/
/* None */

/************************* Exported global variables **************************/
/* None */

/************************** Static global variables ***************************/
{{range .Settings}}/** @brief Default setting for {{.Name}} item. */
static const {{.Type}} {{.StorageName}} = {{.Value}};
{{end}}
/*******************************************************************************
 * FUNCTIONS
 ******************************************************************************/
/* None */

/*******************************************************************************
 * CLASS METHODS
 ******************************************************************************/
void Settings::InitializeDefault(void) noexcept {
{{- range .Settings}}
	this->_defaults.emplace(
		{{.ConstantName}},
		S_SettingField {
			.pValue = (uint8_t*){{address .}},
			.fieldSize = {{.Size}}
		}
	);
{{- end}}
}`

// Generator renders schema documents into the C++ module.
type Generator struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Generator {
	return &Generator{logger: logger}
}

func tplFuncs() template.FuncMap {
	return template.FuncMap{
		"address": addressExpr,
	}
}

// addressExpr renders the registered pValue expression. Value-typed storage is
// registered by taking its address; pointer/array storage already is the
// address and is passed through unchanged.
func addressExpr(s schema.SettingSpec) string {
	if s.Reference() {
		return s.StorageName()
	}
	return "&" + s.StorageName()
}

// Render produces the complete module text. Output depends only on the
// document, so an unchanged schema renders byte-identical bytes.
func (g *Generator) Render(doc *schema.Document) ([]byte, error) {
	tmpl := template.Must(template.New("module").Funcs(tplFuncs()).Parse(moduleTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("execute module template: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate renders the module and writes it to outputPath. The write goes
// through a temp file and rename, so a failed run never leaves a truncated
// module behind.
func (g *Generator) Generate(doc *schema.Document, outputPath string) error {
	data, err := g.Render(doc)
	if err != nil {
		return err
	}

	if err := atomicfile.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write generated module: %w", err)
	}

	g.logger.Info("Generated default settings module", "file", outputPath, "settings", len(doc.Settings))
	return nil
}
