package storage

// FileStore is the outbound port for media bytes. Names are the
// service-generated `<uuid>.<extension>` form; implementations must
// never let a name escape the configured root.
type FileStore interface {
	Write(name string, data []byte) error
	Read(name string) ([]byte, error)
	Remove(name string) error
}
