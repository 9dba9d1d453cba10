package tables

var Tables = []interface{}{
	&Inscriptions{},
}
