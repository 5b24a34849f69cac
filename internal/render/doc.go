// Package render invokes the external document writer that turns an encoded
// competition into a DOCX file, or into the DOCX/HTML pair used for PDF
// export.
package render
