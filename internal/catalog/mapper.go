package catalog

// ToDTO converts a stored entry to its wire form.
func ToDTO(e Entry) DTO {
	return DTO{Name: e.Name}
}

// ToEntity builds a new entry from a DTO.
func ToEntity(d DTO) Entry {
	return Entry{Name: d.Name}
}

// UpdateWithNull overwrites every field of e with d.
func UpdateWithNull(d DTO, e *Entry) {
	e.Name = d.Name
}
