package mysqlstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beandb/mysqlstore/naming"
)

func TestOptions_ConversionPrecedence(t *testing.T) {
	// Default policy when nothing is set.
	assert.IsType(t, naming.Default{}, Options{}.conversion())

	// Disabled beats default.
	assert.IsType(t, naming.Identity{}, Options{DisableNameConversion: true}.conversion())

	// Custom beats disabled.
	custom := naming.Func{SQL: strings.ToUpper, Bean: strings.ToLower}
	opts := Options{DisableNameConversion: true, NameConversion: custom}
	assert.Equal(t, "ABC", opts.conversion().ToSQL("abc"))
}

func TestOptions_Defaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, DefaultPort, o.Port)
	assert.Equal(t, DefaultConnections, o.Connections)
	assert.Equal(t, DefaultKeyField, o.KeyField)
	assert.NotNil(t, o.Debug)
}
