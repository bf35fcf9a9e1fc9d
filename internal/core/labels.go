// Package core defines core types.
package core

// Labels represents key-value metadata attached to decoded frames.
type Labels map[string]string

// Label naming constants following {protocol}.{field} convention.
const (
	LabelModbusFunction       = "modbus.function"        // Function name, e.g. "read_holding_registers"
	LabelModbusPDU            = "modbus.pdu"             // "request" | "response" | "unparsed"
	LabelModbusStartAddress   = "modbus.start_address"   // Read request start address (decimal)
	LabelModbusQuantity       = "modbus.quantity"        // Read request register count (decimal)
	LabelModbusRegisterCount  = "modbus.register_count"  // Registers carried by a read response
	LabelModbusLengthMismatch = "modbus.length_mismatch" // Advisory MBAP length vs. bytes actually present
)
