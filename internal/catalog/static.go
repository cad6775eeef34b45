package catalog

import "mandamentos/domain/commandment"

// GenericDescription is shown for categories missing from the tables below
const GenericDescription = "Mandamentos agrupados nesta categoria."

var blocks = []commandment.CategoryEntry{
	{Title: "Deus", Description: "Mandamentos sobre a natureza divina e fé."},
	{Title: "Lei", Description: "Estudo e respeito à Torah."},
	{Title: "Sinais e Símbolos", Description: "Mezuzá, Tsitsit, Tefilin, etc."},
	{Title: "Oração e Benção", Description: "Vida de oração e gratidão."},
	{Title: "Amor e Fraternidade", Description: "Relações interpessoais."},
	{Title: "Gentios", Description: "Relação com as nações."},
	{Title: "Casamento, divórcio e Família", Description: "Estrutura familiar."},
	{Title: "Relações íntimas", Description: "Santidade no relacionamento."},
	{Title: "Dias Santos", Description: "Shabat e Festas."},
	{Title: "Alimentação", Description: "Kashrut e leis dietéticas."},
	{Title: "Atos de dignidade", Description: "Comportamento honrado."},
	{Title: "Funcionários, Servos e Escravos", Description: "Leis trabalhistas bíblicas."},
	{Title: "Votos, Promessas e Juramentos", Description: "Palavra e compromisso."},
	{Title: "Ano Sabático e Jubileu", Description: "Descanso da terra e economia."},
	{Title: "Tribunal e Processo Judicial", Description: "Justiça e julgamento."},
	{Title: "Danos e Prejuízos", Description: "Responsabilidade civil."},
	{Title: "Propriedade", Description: "Direitos de posse."},
	{Title: "Crimes", Description: "Delitos graves."},
	{Title: "Castigo e Restituição", Description: "Penalidades."},
	{Title: "Profecia", Description: "Verdadeiros e falsos profetas."},
	{Title: "Idolatria e Idólatras", Description: "Afastamento de deuses estranhos."},
	{Title: "Agricultura e Cuidado Animal", Description: "Trato com a criação."},
	{Title: "Roupas", Description: "Shatnez e vestimentas."},
	{Title: "Primogênito", Description: "Consagração dos primeiros."},
	{Title: "Sacerdotes e Levitas", Description: "Serviço sagrado."},
	{Title: "Ofertas, Dízimos e Impostos", Description: "Contribuições sagradas."},
	{Title: "Templo, Santuário e Objetos Sagrados", Description: "Local de habitação Divina."},
	{Title: "Sacrifício e Ofertas", Description: "Sistema sacrificial."},
	{Title: "Rito de Pureza e Impureza", Description: "Leis de Tahará."},
	{Title: "Leproso e Lepra", Description: "Tsaraat e purificação."},
	{Title: "Rei", Description: "Liderança de Israel."},
	{Title: "Nazireu", Description: "Votos especiais de santidade."},
	{Title: "Guerras", Description: "Conduta militar."},
}

var tomos = []commandment.CategoryEntry{
	{Title: "Conhecimento (Mada)", Description: "Fundamentos da Torah."},
	{Title: "Amor (Ahavá)", Description: "Leis sobre o amor a Deus."},
	{Title: "Tempos (Zemanim)", Description: "Shabat e Festas."},
	{Title: "Mulheres (Nashim)", Description: "Casamento e família."},
	{Title: "Santidade (Kedushá)", Description: "Alimentos e pureza sexual."},
	{Title: "Compromissos (Haflaá)", Description: "Votos e juramentos."},
	{Title: "Sementes (Zeraim)", Description: "Leis agrícolas."},
	{Title: "Serviço (Avodá)", Description: "O Templo e oferendas."},
	{Title: "Sacrifícios (Korbanot)", Description: "Oferendas particulares."},
	{Title: "Pureza (Tahorá)", Description: "Pureza ritual."},
	{Title: "Danos (Nezikim)", Description: "Danos civis e criminais."},
	{Title: "Aquisição (Kinyan)", Description: "Compra e venda."},
	{Title: "Juízos (Mishpatim)", Description: "Leis civis."},
	{Title: "Juízes (Shoftim)", Description: "Tribunais, reis e guerras."},
}

// fallbacks describe the buckets created by profile defaults
var fallbacks = []commandment.CategoryEntry{
	{Title: "Outros", Description: "Mandamentos ainda sem bloco definido."},
	{Title: "Geral", Description: "Mandamentos ainda sem tomo definido."},
}
