package servicefn

import (
	"github.com/asecurityteam/runhttp"
	"github.com/asecurityteam/settings/v2"
)

// HelpStatic generates the help output for the HTTP runtime settings.
func HelpStatic() string {
	grp, _ := settings.GroupFromComponent(&runhttp.Component{})
	return settings.ExampleEnvGroups([]settings.Group{&settings.SettingGroup{
		NameValue:   "SERVICEFN",
		GroupValues: []settings.Group{grp},
	}})
}
