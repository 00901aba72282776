// Package pb holds the wire messages of the elimination service. The schema
// is echelon.proto; the types below carry the matching protobuf struct tags
// and are encoded with github.com/gogo/protobuf/proto.
//
// The types are maintained by hand, not generated by protoc-gen-gogo, and
// register no file descriptor. Changes to echelon.proto must be mirrored
// here field by field, keeping tag numbers and wire types in step.
package pb

import (
	proto "github.com/gogo/protobuf/proto"
)

type FieldSpec_Kind int32

const (
	FieldSpec_PRIME  FieldSpec_Kind = 0
	FieldSpec_BINARY FieldSpec_Kind = 1
)

var FieldSpec_Kind_name = map[int32]string{
	0: "PRIME",
	1: "BINARY",
}

var FieldSpec_Kind_value = map[string]int32{
	"PRIME":  0,
	"BINARY": 1,
}

func (x FieldSpec_Kind) String() string {
	return proto.EnumName(FieldSpec_Kind_name, int32(x))
}

type Matrix_Format int32

const (
	Matrix_DENSE       Matrix_Format = 0
	Matrix_BITS        Matrix_Format = 1
	Matrix_SPARSE      Matrix_Format = 2
	Matrix_SPARSE_BITS Matrix_Format = 3
	Matrix_HYBRID      Matrix_Format = 4
)

var Matrix_Format_name = map[int32]string{
	0: "DENSE",
	1: "BITS",
	2: "SPARSE",
	3: "SPARSE_BITS",
	4: "HYBRID",
}

var Matrix_Format_value = map[string]int32{
	"DENSE":       0,
	"BITS":        1,
	"SPARSE":      2,
	"SPARSE_BITS": 3,
	"HYBRID":      4,
}

func (x Matrix_Format) String() string {
	return proto.EnumName(Matrix_Format_name, int32(x))
}

type EchelonRequest_Method int32

const (
	EchelonRequest_DENSE    EchelonRequest_Method = 0
	EchelonRequest_STANDARD EchelonRequest_Method = 1
	EchelonRequest_REDUCE   EchelonRequest_Method = 2
)

var EchelonRequest_Method_name = map[int32]string{
	0: "DENSE",
	1: "STANDARD",
	2: "REDUCE",
}

var EchelonRequest_Method_value = map[string]int32{
	"DENSE":    0,
	"STANDARD": 1,
	"REDUCE":   2,
}

func (x EchelonRequest_Method) String() string {
	return proto.EnumName(EchelonRequest_Method_name, int32(x))
}

type FieldSpec struct {
	Kind    FieldSpec_Kind `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Modulus []byte         `protobuf:"bytes,2,opt,name=modulus,proto3" json:"modulus,omitempty"`
	Degree  uint32         `protobuf:"varint,3,opt,name=degree,proto3" json:"degree,omitempty"`
}

func (m *FieldSpec) Reset()         { *m = FieldSpec{} }
func (m *FieldSpec) String() string { return proto.CompactTextString(m) }
func (*FieldSpec) ProtoMessage()    {}

type Row struct {
	Index  []uint32 `protobuf:"varint,1,rep,packed,name=index,proto3" json:"index,omitempty"`
	Values []byte   `protobuf:"bytes,2,opt,name=values,proto3" json:"values,omitempty"`
	Words  []uint64 `protobuf:"fixed64,3,rep,packed,name=words,proto3" json:"words,omitempty"`
}

func (m *Row) Reset()         { *m = Row{} }
func (m *Row) String() string { return proto.CompactTextString(m) }
func (*Row) ProtoMessage()    {}

type Matrix struct {
	Format Matrix_Format `protobuf:"varint,1,opt,name=format,proto3" json:"format,omitempty"`
	Rows   uint32        `protobuf:"varint,2,opt,name=rows,proto3" json:"rows,omitempty"`
	Cols   uint32        `protobuf:"varint,3,opt,name=cols,proto3" json:"cols,omitempty"`
	Row    []*Row        `protobuf:"bytes,4,rep,name=row,proto3" json:"row,omitempty"`
}

func (m *Matrix) Reset()         { *m = Matrix{} }
func (m *Matrix) String() string { return proto.CompactTextString(m) }
func (*Matrix) ProtoMessage()    {}

type Transposition struct {
	I uint32 `protobuf:"varint,1,opt,name=i,proto3" json:"i,omitempty"`
	J uint32 `protobuf:"varint,2,opt,name=j,proto3" json:"j,omitempty"`
}

func (m *Transposition) Reset()         { *m = Transposition{} }
func (m *Transposition) String() string { return proto.CompactTextString(m) }
func (*Transposition) ProtoMessage()    {}

type EchelonRequest struct {
	Id        uint64                `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Method    EchelonRequest_Method `protobuf:"varint,2,opt,name=method,proto3" json:"method,omitempty"`
	Field     *FieldSpec            `protobuf:"bytes,3,opt,name=field,proto3" json:"field,omitempty"`
	Matrix    *Matrix               `protobuf:"bytes,4,opt,name=matrix,proto3" json:"matrix,omitempty"`
	Reduced   bool                  `protobuf:"varint,5,opt,name=reduced,proto3" json:"reduced,omitempty"`
	Transform bool                  `protobuf:"varint,6,opt,name=transform,proto3" json:"transform,omitempty"`
	StartRow  uint32                `protobuf:"varint,7,opt,name=start_row,json=startRow,proto3" json:"start_row,omitempty"`
	Rank      uint32                `protobuf:"varint,8,opt,name=rank,proto3" json:"rank,omitempty"`
	Cutoff    uint32                `protobuf:"varint,9,opt,name=cutoff,proto3" json:"cutoff,omitempty"`
}

func (m *EchelonRequest) Reset()         { *m = EchelonRequest{} }
func (m *EchelonRequest) String() string { return proto.CompactTextString(m) }
func (*EchelonRequest) ProtoMessage()    {}

type EchelonResponse struct {
	Id          uint64           `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Echelon     *Matrix          `protobuf:"bytes,2,opt,name=echelon,proto3" json:"echelon,omitempty"`
	Transform   *Matrix          `protobuf:"bytes,3,opt,name=transform,proto3" json:"transform,omitempty"`
	Permutation []*Transposition `protobuf:"bytes,4,rep,name=permutation,proto3" json:"permutation,omitempty"`
	Rank        uint32           `protobuf:"varint,5,opt,name=rank,proto3" json:"rank,omitempty"`
	Determinant []byte           `protobuf:"bytes,6,opt,name=determinant,proto3" json:"determinant,omitempty"`
	Error       string           `protobuf:"bytes,7,opt,name=error,proto3" json:"error,omitempty"`
}

func (m *EchelonResponse) Reset()         { *m = EchelonResponse{} }
func (m *EchelonResponse) String() string { return proto.CompactTextString(m) }
func (*EchelonResponse) ProtoMessage()    {}

func init() {
	proto.RegisterEnum("echelon.pb.FieldSpec_Kind", FieldSpec_Kind_name, FieldSpec_Kind_value)
	proto.RegisterEnum("echelon.pb.Matrix_Format", Matrix_Format_name, Matrix_Format_value)
	proto.RegisterEnum("echelon.pb.EchelonRequest_Method", EchelonRequest_Method_name, EchelonRequest_Method_value)
	proto.RegisterType((*FieldSpec)(nil), "echelon.pb.FieldSpec")
	proto.RegisterType((*Row)(nil), "echelon.pb.Row")
	proto.RegisterType((*Matrix)(nil), "echelon.pb.Matrix")
	proto.RegisterType((*Transposition)(nil), "echelon.pb.Transposition")
	proto.RegisterType((*EchelonRequest)(nil), "echelon.pb.EchelonRequest")
	proto.RegisterType((*EchelonResponse)(nil), "echelon.pb.EchelonResponse")
}
