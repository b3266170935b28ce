package cpp

// Package is a resolved dependency: a reference, the folder it was
// installed into and its link information
type Package struct {
	Name    string
	Version string
	Folder  string
	Info    *Info
}

// IncludeDirs returns the absolute include folders
func (p Package) IncludeDirs() []string {
	return Abs(p.Folder, p.Info.IncludeDirs)
}

// LibDirs returns the absolute library folders
func (p Package) LibDirs() []string {
	return Abs(p.Folder, p.Info.LibDirs)
}

// BinDirs returns the absolute binary folders
func (p Package) BinDirs() []string {
	return Abs(p.Folder, p.Info.BinDirs)
}

// CMakeFileName returns the config file base name, defaulting to the
// package name
func (p Package) CMakeFileName() string {
	return p.Info.PropertyOr(PropertyCMakeFileName, p.Name)
}

// CMakeTargetName returns the imported target, defaulting to name::name
func (p Package) CMakeTargetName() string {
	return p.Info.PropertyOr(PropertyCMakeTargetName, p.Name+"::"+p.Name)
}

// PkgConfigName returns the .pc base name, defaulting to the package name
func (p Package) PkgConfigName() string {
	return p.Info.PropertyOr(PropertyPkgConfigName, p.Name)
}
