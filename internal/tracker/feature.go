package tracker

import "fmt"

// Feature is a handle on one tracked feature. Status and priority change
// only through the Tracker; description and properties are read from and
// written to their record files on every call.
type Feature struct {
	tracker *Tracker
	name    string
	status  string
}

// Name returns the feature's name.
func (f *Feature) Name() string {
	return f.name
}

// Status returns the feature's status.
func (f *Feature) Status() string {
	return f.status
}

// Priority returns the feature's 1-based rank within its status, or 0 if
// the feature has been purged.
func (f *Feature) Priority() int {
	if b, ok := f.tracker.buckets[f.status]; ok {
		return b.RankOf(f.name)
	}
	return 0
}

// Description returns the feature's description.
func (f *Feature) Description() (string, error) {
	var s string
	if err := f.tracker.readField(f.name, descriptionField, &s); err != nil {
		return "", err
	}
	return s, nil
}

// SetDescription replaces the feature's description.
func (f *Feature) SetDescription(s string) error {
	if err := f.tracker.writeField(f.name, descriptionField, s); err != nil {
		return fmt.Errorf("set description of %s: %w", f.name, err)
	}
	return nil
}

// Properties returns a copy of the feature's properties. Changes to it
// take effect through SetProperties.
func (f *Feature) Properties() (*Properties, error) {
	p := NewProperties()
	if err := f.tracker.readField(f.name, propertiesField, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetProperties replaces the feature's properties.
func (f *Feature) SetProperties(p *Properties) error {
	if p == nil {
		p = NewProperties()
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := f.tracker.writeField(f.name, propertiesField, p); err != nil {
		return fmt.Errorf("set properties of %s: %w", f.name, err)
	}
	return nil
}

// DescriptionFile returns the real path of the description file, for
// handing to an editor.
func (f *Feature) DescriptionFile() string {
	return f.tracker.st.AbsPath(f.tracker.layout.recordPath(f.name, descriptionField))
}

// PropertiesFile returns the real path of the properties file.
func (f *Feature) PropertiesFile() string {
	return f.tracker.st.AbsPath(f.tracker.layout.recordPath(f.name, propertiesField))
}

func (f *Feature) String() string {
	return fmt.Sprintf("Feature(name=%s, status=%s, priority=%d)", f.name, f.status, f.Priority())
}
