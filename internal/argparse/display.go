// File: internal/argparse/display.go
package argparse

// URIFunc turns a listed item into its canonical URI
type URIFunc func(item any) (string, error)

// DisplayInfo holds output hints registered alongside the arguments
type DisplayInfo struct {
	uriFunc URIFunc
}

func (d *DisplayInfo) AddURIFunc(f URIFunc) {
	d.uriFunc = f
}

func (d *DisplayInfo) HasURIFunc() bool {
	return d.uriFunc != nil
}

func (d *DisplayInfo) URI(item any) (string, error) {
	if d.uriFunc == nil {
		return "", nil
	}
	return d.uriFunc(item)
}
