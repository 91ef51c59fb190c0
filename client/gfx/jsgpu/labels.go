package jsgpu

// propertySetter is the part of safejs.Value needed to label GPU objects.
type propertySetter interface {
	Set(p string, x any) error
}

// setLabel sets the label the browser shows for a GPU object in validation
// messages and developer tools. An empty label leaves the object unlabeled.
func setLabel(obj propertySetter, label string) error {
	if label == "" {
		return nil
	}
	return obj.Set("label", label)
}
